package controllers

import (
	"HospiCare/handlers"

	"github.com/gin-gonic/gin"
)

// SetupProfileRoutes registers the patient and doctor directory endpoints.
func SetupProfileRoutes(router *gin.Engine, profileHandler *handlers.ProfileHandler) {
	router.POST("/patients", profileHandler.CreatePatient)
	router.GET("/patients", profileHandler.GetAllPatients)
	router.GET("/patients/:id", profileHandler.GetPatientByID)
	router.GET("/patients/nik/:nik", profileHandler.GetPatientByNIK)

	router.POST("/doctors", profileHandler.CreateDoctor)
	router.GET("/doctors", profileHandler.GetAllDoctors)
	router.GET("/doctors/:id", profileHandler.GetDoctorByID)
	router.PUT("/doctors/:id", profileHandler.UpdateDoctor)
}

// SetupCatalogRoutes registers the read-only treatment and coverage catalogs.
func SetupCatalogRoutes(router *gin.Engine, catalogHandler *handlers.CatalogHandler) {
	router.GET("/treatments", catalogHandler.GetTreatments)
	router.GET("/coverages", catalogHandler.GetCoverages)
}

// SetupAppointmentRoutes registers the outpatient appointment endpoints.
func SetupAppointmentRoutes(router *gin.Engine, appointmentHandler *handlers.AppointmentHandler) {
	router.POST("/appointments", appointmentHandler.Create)
	router.GET("/appointments", appointmentHandler.GetAll)
	router.GET("/appointments/:id", appointmentHandler.GetByID)
	router.PUT("/appointments/:id/schedule", appointmentHandler.Reschedule)
	router.PUT("/appointments/:id/diagnosis", appointmentHandler.SetDiagnosis)
	router.POST("/appointments/:id/done", appointmentHandler.MarkDone)
	router.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
}

// SetupPharmacyRoutes registers the medicine inventory and prescription
// endpoints.
func SetupPharmacyRoutes(router *gin.Engine, pharmacyHandler *handlers.PharmacyHandler) {
	router.POST("/medicines", pharmacyHandler.CreateMedicine)
	router.GET("/medicines", pharmacyHandler.GetAllMedicines)
	router.GET("/medicines/:id", pharmacyHandler.GetMedicineByID)
	router.PUT("/medicines/:id", pharmacyHandler.UpdateMedicine)
	router.POST("/medicines/:id/restock", pharmacyHandler.RestockMedicine)

	router.POST("/prescriptions", pharmacyHandler.CreatePrescription)
	router.GET("/prescriptions", pharmacyHandler.GetAllPrescriptions)
	router.GET("/prescriptions/:id", pharmacyHandler.GetPrescriptionByID)
	router.PUT("/prescriptions/:id", pharmacyHandler.UpdatePrescription)
	router.POST("/prescriptions/:id/process", pharmacyHandler.ProcessPrescription)
	router.POST("/prescriptions/:id/cancel", pharmacyHandler.CancelPrescription)
}

// SetupHospitalizationRoutes registers the room, facility, and reservation
// endpoints.
func SetupHospitalizationRoutes(router *gin.Engine, hospitalizationHandler *handlers.HospitalizationHandler) {
	router.POST("/rooms", hospitalizationHandler.CreateRoom)
	router.GET("/rooms", hospitalizationHandler.GetAllRooms)
	router.GET("/rooms/:id", hospitalizationHandler.GetRoomByID)

	router.POST("/facilities", hospitalizationHandler.CreateFacility)
	router.GET("/facilities", hospitalizationHandler.GetAllFacilities)

	router.POST("/reservations", hospitalizationHandler.CreateReservation)
	router.GET("/reservations", hospitalizationHandler.GetAllReservations)
	router.GET("/reservations/:id", hospitalizationHandler.GetReservationByID)
	router.PUT("/reservations/:id", hospitalizationHandler.UpdateReservation)
}

// SetupInsuranceRoutes registers the insurance company and policy endpoints.
func SetupInsuranceRoutes(router *gin.Engine, insuranceHandler *handlers.InsuranceHandler) {
	router.POST("/companies", insuranceHandler.CreateCompany)
	router.GET("/companies", insuranceHandler.GetAllCompanies)
	router.GET("/companies/:id", insuranceHandler.GetCompanyByID)
	router.PUT("/companies/:id", insuranceHandler.UpdateCompany)

	router.POST("/policies", insuranceHandler.CreatePolicy)
	router.GET("/policies", insuranceHandler.GetAllPolicies)
	router.GET("/policies/:id", insuranceHandler.GetPolicyByID)
	router.PUT("/policies/:id/expiry", insuranceHandler.UpdatePolicyExpiry)
	router.POST("/policies/:id/cancel", insuranceHandler.CancelPolicy)
	router.POST("/policies/expire-sweep", insuranceHandler.ExpirePolicies)
}

// SetupBillingRoutes registers the billing and reconciliation endpoints.
func SetupBillingRoutes(router *gin.Engine, billingHandler *handlers.BillingHandler) {
	router.GET("/bills", billingHandler.ListBills)
	router.GET("/bills/summary", billingHandler.Summary)
	router.GET("/bills/:id", billingHandler.GetBill)
	router.GET("/patients/:id/bills", billingHandler.PatientBills)
	router.POST("/bills/:id/pay", billingHandler.Pay)
	router.POST("/bills/:id/policy", billingHandler.AttachPolicy)
	router.POST("/bills/reconcile", billingHandler.Reconcile)
}
