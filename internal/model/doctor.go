package model

// Doctor represents a clinician stored in the `doctors` table.  Doctors
// may be referenced by appointments and patient records; neither
// reference is owned, so deleting a doctor leaves those rows in place
// with a null doctor_id.
type Doctor struct {
	ID        uint64 `json:"id"`         // doctors.id
	FirstName string `json:"first_name"` // doctors.first_name
	LastName  string `json:"last_name"`  // doctors.last_name
	Specialty string `json:"specialty"`  // doctors.specialty
	Phone     string `json:"phone"`      // doctors.phone
	Email     string `json:"email"`      // doctors.email
}
