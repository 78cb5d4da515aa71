package model

// Patient represents a row in the `patients` table.  A patient
// exclusively owns its patient records: deleting the patient deletes
// them.  Appointments only reference a patient and survive with a null
// patient_id.
type Patient struct {
	ID        uint64 `json:"id"`         // patients.id
	FirstName string `json:"first_name"` // patients.first_name
	LastName  string `json:"last_name"`  // patients.last_name
	DOB       *Date  `json:"dob"`        // patients.dob (nullable)
	Phone     string `json:"phone"`      // patients.phone
	Email     string `json:"email"`      // patients.email
	Address   string `json:"address"`    // patients.address
}
