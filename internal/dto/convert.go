package dto

import "github.com/iliyamo/healthconnect-api/internal/model"

// ToDoctor validates in and converts it to a persistence model.
func ToDoctor(in DoctorInput) (model.Doctor, error) {
	if err := Validate(in); err != nil {
		return model.Doctor{}, err
	}
	return model.Doctor{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Specialty: in.Specialty,
		Phone:     in.Phone,
		Email:     in.Email,
	}, nil
}

func ToPatient(in PatientInput) (model.Patient, error) {
	if err := Validate(in); err != nil {
		return model.Patient{}, err
	}
	return model.Patient{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DOB:       in.DOB,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
	}, nil
}

// ToPatientRecord validates in and converts it. A doctor_id of 0 means
// "no doctor".
func ToPatientRecord(in PatientRecordInput) (model.PatientRecord, error) {
	if err := Validate(in); err != nil {
		return model.PatientRecord{}, err
	}
	doctorID := in.DoctorID
	if doctorID != nil && *doctorID == 0 {
		doctorID = nil
	}
	return model.PatientRecord{
		Date:      *in.Date,
		Notes:     in.Notes,
		HeightIn:  in.HeightIn,
		WeightLb:  in.WeightLb,
		Diagnosis: in.Diagnosis,
		PatientID: *in.PatientID,
		DoctorID:  doctorID,
	}, nil
}

// ToAppointment validates in, parses its time and converts it. Contact
// fields are dropped. Ids that cannot name a row (zero or negative) become
// nil here; resolving the rest is left to the service.
func ToAppointment(in AppointmentInput) (model.Appointment, error) {
	if err := Validate(in); err != nil {
		return model.Appointment{}, err
	}
	tod, err := ParseTimeOfDay(in.Time)
	if err != nil {
		return model.Appointment{}, err
	}
	return model.Appointment{
		Date:      *in.Date,
		Time:      tod,
		Purpose:   in.Purpose,
		DoctorID:  referenceID(in.DoctorID),
		PatientID: referenceID(in.PatientID),
	}, nil
}

func referenceID(id *ReferenceID) *uint64 {
	if id == nil || *id <= 0 {
		return nil
	}
	v := uint64(*id)
	return &v
}
