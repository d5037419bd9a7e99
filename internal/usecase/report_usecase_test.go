package usecase

import (
	"context"
	"testing"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	other := testutil.CreateUser(t, f.db, "other@example.com", entity.RoleTherapist)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", entity.RoleAdmin)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
	orphan, _ := testutil.CreatePatient(t, f.db, "orphan@example.com", nil)
	ctx := context.Background()

	report, err := f.reports.CreateReport(ctx, actorOf(therapist), &dto.CreateReportRequest{
		PatientID: patient.ID.String(),
		Title:     "Evolução",
		Content:   "Paciente relata melhora no sono.",
	})
	require.NoError(t, err)
	assert.Equal(t, therapist.ID, report.TherapistID)

	t.Run("admin files under the patient's therapist", func(t *testing.T) {
		res, err := f.reports.CreateReport(ctx, actorOf(admin), &dto.CreateReportRequest{
			PatientID: patient.ID.String(),
			Title:     "Nota administrativa",
			Content:   "Troca de horário.",
		})
		require.NoError(t, err)
		assert.Equal(t, therapist.ID, res.TherapistID)

		_, err = f.reports.CreateReport(ctx, actorOf(admin), &dto.CreateReportRequest{
			PatientID: orphan.ID.String(),
			Title:     "Sem terapeuta",
			Content:   "x",
		})
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("other therapist cannot write or read", func(t *testing.T) {
		_, err := f.reports.CreateReport(ctx, actorOf(other), &dto.CreateReportRequest{
			PatientID: patient.ID.String(),
			Title:     "Intruso",
			Content:   "x",
		})
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.reports.GetReport(ctx, actorOf(other), report.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("patient reads but cannot modify", func(t *testing.T) {
		_, err := f.reports.GetReport(ctx, actorOf(patient), report.ID)
		require.NoError(t, err)

		title := "Mudado"
		_, err = f.reports.UpdateReport(ctx, actorOf(patient), report.ID, &dto.UpdateReportRequest{Title: &title})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, f.reports.DeleteReport(ctx, actorOf(patient), report.ID), ErrForbidden)

		_, err = f.reports.CreateReport(ctx, actorOf(patient), &dto.CreateReportRequest{
			PatientID: patient.ID.String(),
			Title:     "Eu mesmo",
			Content:   "x",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("search covers title and content", func(t *testing.T) {
		list, err := f.reports.ListReports(ctx, actorOf(therapist), dto.ReportListQuery{Search: "sono"})
		require.NoError(t, err)
		require.EqualValues(t, 1, list.Total)
		assert.Equal(t, report.ID, list.Items[0].ID)

		list, err = f.reports.ListReports(ctx, actorOf(other), dto.ReportListQuery{})
		require.NoError(t, err)
		assert.Zero(t, list.Total)
	})

	t.Run("author updates and deletes", func(t *testing.T) {
		title := "Evolução semanal"
		res, err := f.reports.UpdateReport(ctx, actorOf(therapist), report.ID, &dto.UpdateReportRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, res.Title)

		require.NoError(t, f.reports.DeleteReport(ctx, actorOf(therapist), report.ID))
		_, err = f.reports.GetReport(ctx, actorOf(therapist), report.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
