package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents a user role
type Role struct {
	ID          int64        `gorm:"primaryKey;column:id" json:"id"`
	Name        string       `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string       `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts initial roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: "Admin", Description: "Full access to the system"},
		{Name: "Doctor", Description: "Can manage appointments, diagnoses, and treatments"},
		{Name: "Nurse", Description: "Can manage room reservations and insurance policies"},
		{Name: "Pharmacist", Description: "Can process prescriptions and manage medicine stock"},
		{Name: "Patient", Description: "Limited access to personal data"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User represents a user in the system
type User struct {
	ID        string         `gorm:"primaryKey;column:id;size:36" json:"id"`
	Name      string         `gorm:"size:255;not null;column:name" json:"name"`
	Username  string         `gorm:"size:150;not null;unique;index;column:username" json:"username"`
	Email     string         `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string         `gorm:"size:128;not null;column:password" json:"-"`
	Gender    bool           `gorm:"column:gender" json:"gender"` // true: female, false: male
	RoleID    int64          `gorm:"index;not null;column:role_id" json:"role_id"`
	Role      Role           `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Permission represents a permission in the system
type Permission struct {
	ID          int64  `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"size:100;not null;unique;index;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// SeedPermissions inserts initial permissions into the database
func SeedPermissions(db *gorm.DB) error {
	initialPermissions := []Permission{
		{Name: "manage_users", Description: "Create, update, or delete users"},
		{Name: "manage_appointments", Description: "Create or update appointments"},
		{Name: "process_prescriptions", Description: "Process prescriptions and restock medicine"},
		{Name: "manage_reservations", Description: "Create or update room reservations"},
		{Name: "manage_policies", Description: "Create or cancel insurance policies"},
		{Name: "manage_bills", Description: "Reconcile and pay bills"},
		{Name: "view_self", Description: "View personal data"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, permission := range initialPermissions {
			if err := tx.FirstOrCreate(&permission, Permission{Name: permission.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RolePermission represents the association between roles and permissions
type RolePermission struct {
	ID           int64 `gorm:"primaryKey;column:id" json:"id"`
	RoleID       int64 `gorm:"index;column:role_id" json:"role_id"`
	PermissionID int64 `gorm:"index;column:permission_id" json:"permission_id"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// SeedRolePermissions inserts initial role permissions into the database
func SeedRolePermissions(db *gorm.DB) error {
	initialRolePermissions := []RolePermission{
		{RoleID: 1, PermissionID: 1}, // Admin: manage_users
		{RoleID: 1, PermissionID: 2}, // Admin: manage_appointments
		{RoleID: 1, PermissionID: 5}, // Admin: manage_policies
		{RoleID: 1, PermissionID: 6}, // Admin: manage_bills
		{RoleID: 2, PermissionID: 2}, // Doctor: manage_appointments
		{RoleID: 3, PermissionID: 4}, // Nurse: manage_reservations
		{RoleID: 3, PermissionID: 5}, // Nurse: manage_policies
		{RoleID: 4, PermissionID: 3}, // Pharmacist: process_prescriptions
		{RoleID: 5, PermissionID: 7}, // Patient: view_self
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, rolePermission := range initialRolePermissions {
			if err := tx.FirstOrCreate(&rolePermission, RolePermission{RoleID: rolePermission.RoleID, PermissionID: rolePermission.PermissionID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
