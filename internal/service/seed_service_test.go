package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spc-registrar/records-api/internal/models"
	"github.com/spc-registrar/records-api/internal/repository"
)

func TestSeedServiceEnsureDefaults(t *testing.T) {
	operators := &operatorRepoStub{}
	records := newRecordRepoStub()
	svc := NewSeedService(operators, records, NewBcryptHasher(), testLogger())

	require.NoError(t, svc.EnsureDefaults(context.Background()))

	require.Equal(t, DefaultAdminUsername, operators.operator.Username)
	require.Equal(t, "admin", operators.operator.Role)
	require.True(t, NewBcryptHasher().Compare(operators.operator.PasswordHash, DefaultAdminPassword))

	seeded, err := records.List(context.Background(), operators.operator.ID, repository.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, seeded, 3)

	byIDNumber := map[string]models.StudentRecord{}
	for _, record := range seeded {
		require.Equal(t, record.FirstName, record.LegacyName)
		require.Equal(t, record.DeriveTitle(), record.Title)
		byIDNumber[record.IDNumber] = record
	}
	require.Equal(t, models.StatusActive, byIDNumber["S001"].Status)
	require.Equal(t, models.StatusGraduate, byIDNumber["S003"].Status)
	require.Equal(t, "Robert James Johnson", byIDNumber["S003"].FullName())
}

func TestSeedServiceSkipsPopulatedDatabase(t *testing.T) {
	operators := &operatorRepoStub{operator: models.Operator{ID: 7, Username: "existing"}}
	records := newRecordRepoStub()
	svc := NewSeedService(operators, records, NewBcryptHasher(), testLogger())

	require.NoError(t, svc.EnsureDefaults(context.Background()))
	require.Equal(t, "existing", operators.operator.Username)
	require.Empty(t, records.records)
}
