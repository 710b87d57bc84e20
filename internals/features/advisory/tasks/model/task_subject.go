package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind subjek task. Sum type kecil supaya handling-nya exhaustive di kode,
// bukan pasangan type+id dinamis ala polymorphic association.
type TaskSubjectKind string

const (
	SubjectCase         TaskSubjectKind = "case"
	SubjectPrescription TaskSubjectKind = "prescription"
	SubjectAssessment   TaskSubjectKind = "assessment"
)

type TaskSubject struct {
	Kind TaskSubjectKind
	ID   uuid.UUID
}

func CaseRef(id uuid.UUID) TaskSubject         { return TaskSubject{Kind: SubjectCase, ID: id} }
func PrescriptionRef(id uuid.UUID) TaskSubject { return TaskSubject{Kind: SubjectPrescription, ID: id} }
func AssessmentRef(id uuid.UUID) TaskSubject   { return TaskSubject{Kind: SubjectAssessment, ID: id} }

func (s TaskSubject) Valid() bool {
	if s.ID == uuid.Nil {
		return false
	}
	switch s.Kind {
	case SubjectCase, SubjectPrescription, SubjectAssessment:
		return true
	}
	return false
}

func (s TaskSubject) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.ID)
}

// Subject membaca pasangan kolom kind+id sebagai TaskSubject.
func (m *AdvisoryTaskModel) Subject() TaskSubject {
	return TaskSubject{Kind: TaskSubjectKind(m.AdvisoryTaskSubjectKind), ID: m.AdvisoryTaskSubjectID}
}

// SetSubject menulis TaskSubject ke kolom kind+id.
func (m *AdvisoryTaskModel) SetSubject(s TaskSubject) {
	m.AdvisoryTaskSubjectKind = string(s.Kind)
	m.AdvisoryTaskSubjectID = s.ID
}
