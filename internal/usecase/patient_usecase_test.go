package usecase

import (
	"context"
	"testing"
	"time"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePatient(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", entity.RoleAdmin)
	ctx := context.Background()

	t.Run("therapist becomes the assigned therapist", func(t *testing.T) {
		res, err := f.patients.CreatePatient(ctx, actorOf(therapist), &dto.CreatePatientRequest{
			Email:    "New.Patient@example.com",
			FullName: "João da Silva",
		})
		require.NoError(t, err)
		require.NotNil(t, res.TherapistID)
		assert.Equal(t, therapist.ID, *res.TherapistID)
		assert.Equal(t, "new.patient@example.com", res.Email)

		var user entity.User
		require.NoError(t, f.db.First(&user, "id = ?", res.UserID).Error)
		assert.Equal(t, "João", user.FirstName)
		assert.Equal(t, "da Silva", user.LastName)
		assert.Equal(t, entity.RolePatient, user.Role)
	})

	t.Run("existing non-patient email is rejected", func(t *testing.T) {
		_, err := f.patients.CreatePatient(ctx, actorOf(therapist), &dto.CreatePatientRequest{
			Email:    "admin@example.com",
			FullName: "Someone",
		})
		vErr, ok := IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, vErr.Fields, "email")
	})

	t.Run("existing profile is rejected", func(t *testing.T) {
		_, err := f.patients.CreatePatient(ctx, actorOf(therapist), &dto.CreatePatientRequest{
			Email:    "new.patient@example.com",
			FullName: "João da Silva",
		})
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("existing patient user without profile gets one", func(t *testing.T) {
		bare := testutil.CreateUser(t, f.db, "bare@example.com", entity.RolePatient)
		res, err := f.patients.CreatePatient(ctx, actorOf(admin), &dto.CreatePatientRequest{
			Email:       "bare@example.com",
			FullName:    "Bare Patient",
			TherapistID: therapist.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, bare.ID, res.UserID)
		assert.Equal(t, therapist.ID, *res.TherapistID)
	})

	t.Run("admin must name a therapist", func(t *testing.T) {
		_, err := f.patients.CreatePatient(ctx, actorOf(admin), &dto.CreatePatientRequest{
			Email:       "wrong-therapist@example.com",
			FullName:    "Wrong Therapist",
			TherapistID: admin.ID.String(),
		})
		vErr, ok := IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, vErr.Fields, "therapist_id")
	})

	t.Run("patients cannot provision patients", func(t *testing.T) {
		patient, _ := testutil.CreatePatient(t, f.db, "p@example.com", therapist)
		_, err := f.patients.CreatePatient(ctx, actorOf(patient), &dto.CreatePatientRequest{
			Email:    "friend@example.com",
			FullName: "Friend",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestPatientAccess(t *testing.T) {
	f := newFixture(t)
	mine := testutil.CreateUser(t, f.db, "mine@example.com", entity.RoleTherapist)
	other := testutil.CreateUser(t, f.db, "other@example.com", entity.RoleTherapist)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", entity.RoleAdmin)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", mine)
	ctx := context.Background()

	_, err := f.patients.GetPatient(ctx, actorOf(mine), patient.ID)
	assert.NoError(t, err)
	_, err = f.patients.GetPatient(ctx, actorOf(patient), patient.ID)
	assert.NoError(t, err)
	_, err = f.patients.GetPatient(ctx, actorOf(other), patient.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	t.Run("only an admin reassigns", func(t *testing.T) {
		to := other.ID.String()
		_, err := f.patients.UpdatePatient(ctx, actorOf(mine), patient.ID, &dto.UpdatePatientRequest{TherapistID: &to})
		assert.ErrorIs(t, err, ErrForbidden)

		same := mine.ID.String()
		name := "Renamed Patient"
		res, err := f.patients.UpdatePatient(ctx, actorOf(patient), patient.ID, &dto.UpdatePatientRequest{
			TherapistID: &same,
			FullName:    &name,
		})
		require.NoError(t, err)
		assert.Equal(t, name, res.FullName)

		res, err = f.patients.UpdatePatient(ctx, actorOf(admin), patient.ID, &dto.UpdatePatientRequest{TherapistID: &to})
		require.NoError(t, err)
		assert.Equal(t, other.ID, *res.TherapistID)
	})

	t.Run("listing is scoped to the therapist", func(t *testing.T) {
		list, err := f.patients.ListPatients(ctx, actorOf(mine), dto.PatientListQuery{})
		require.NoError(t, err)
		assert.Zero(t, list.Total)

		list, err = f.patients.ListPatients(ctx, actorOf(other), dto.PatientListQuery{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, list.Total)
	})
}

func TestSearchPatients(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	for i := 0; i < 12; i++ {
		testutil.CreatePatient(t, f.db, "p"+string(rune('a'+i))+"@example.com", therapist)
	}
	testutil.CreatePatient(t, f.db, "elsewhere@example.com", nil)
	ctx := context.Background()

	res, err := f.patients.SearchPatients(ctx, actorOf(therapist), "patient")
	require.NoError(t, err)
	assert.Len(t, res, patientSearchLimit)
	for _, p := range res {
		assert.Equal(t, therapist.ID, *p.TherapistID)
	}

	res, err = f.patients.SearchPatients(ctx, actorOf(therapist), "   ")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestDeletePatient_Cascades(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
	ctx := context.Background()

	_, err := f.sessions.CreateSession(ctx, actorOf(therapist), &dto.CreateSessionRequest{
		PatientID:       patient.ID.String(),
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		DurationMinutes: 50,
	})
	require.NoError(t, err)
	_, err = f.reports.CreateReport(ctx, actorOf(therapist), &dto.CreateReportRequest{
		PatientID: patient.ID.String(),
		Title:     "Avaliação",
		Content:   "Primeira sessão.",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.patients.DeletePatient(ctx, actorOf(patient), patient.ID), ErrForbidden)
	require.NoError(t, f.patients.DeletePatient(ctx, actorOf(therapist), patient.ID))

	assert.Zero(t, f.count(t, &entity.PatientProfile{}, "user_id = ?", patient.ID))
	assert.Zero(t, f.count(t, &entity.Session{}, "patient_id = ?", patient.ID))
	assert.Zero(t, f.count(t, &entity.Report{}, "patient_id = ?", patient.ID))

	assert.ErrorIs(t, f.patients.DeletePatient(ctx, actorOf(therapist), patient.ID), ErrNotFound)
}
