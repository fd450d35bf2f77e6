package services

import (
	"context"
	"regexp"
	"testing"

	"parcheggiml/database"
	"parcheggiml/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterParking(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	registry := NewParkingRegistry(store, rome(t), zerolog.Nop()).WithClock(fixedClock(at(t, "2024-03-07 10:00")))

	p, err := registry.Register(ctx, RegisterInput{
		Latitude: 45.47, Longitude: 9.18, Address: "  Corso Como  ", Paid: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^park_[0-9a-f]{8}$`), p.ID)
	assert.Equal(t, "Corso Como", p.Address)
	assert.Equal(t, "2024-03-07T10:00:00+01:00", p.LastUpdated)

	stored, err := store.GetParking(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *stored)

	missing, err := registry.MissingInfo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"covered", "capacity"}, missing)
}

func TestRegisterParkingGeneratesDistinctIDs(t *testing.T) {
	registry := NewParkingRegistry(database.NewMemoryStore(), rome(t), zerolog.Nop())
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := registry.Register(context.Background(), RegisterInput{Latitude: 45, Longitude: 9, Address: "x"})
		require.NoError(t, err)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestRegisterParkingValidation(t *testing.T) {
	registry := NewParkingRegistry(database.NewMemoryStore(), rome(t), zerolog.Nop())

	cases := map[string]RegisterInput{
		"latitude":  {Latitude: 91, Longitude: 9, Address: "x"},
		"longitude": {Latitude: 45, Longitude: -181, Address: "x"},
		"address":   {Latitude: 45, Longitude: 9, Address: "   "},
		"capacity":  {Latitude: 45, Longitude: 9, Address: "x", Capacity: intPtr(-1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := registry.Register(context.Background(), in)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestMissingInfo(t *testing.T) {
	ctx := context.Background()
	registry := NewParkingRegistry(seededStore(t), rome(t), zerolog.Nop())

	missing, err := registry.MissingInfo(ctx, "park1")
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.NotNil(t, missing)

	missing, err = registry.MissingInfo(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, []string{}, missing)

	faulty := NewParkingRegistry(&faultyStore{Store: seededStore(t), failGet: true}, rome(t), zerolog.Nop())
	_, err = faulty.MissingInfo(ctx, "park1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestUpdateParking(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	registry := NewParkingRegistry(store, rome(t), zerolog.Nop()).WithClock(fixedClock(at(t, "2024-05-01 18:30")))

	p, err := registry.Register(ctx, RegisterInput{Latitude: 45, Longitude: 9, Address: "Via Tortona"})
	require.NoError(t, err)
	assert.Equal(t, []string{"covered", "paid", "capacity"}, p.MissingFields())

	updated, err := registry.Update(ctx, p.ID, models.ParkingUpdate{Covered: boolPtr(true), Paid: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"capacity"}, updated.MissingFields())
	assert.Equal(t, "2024-05-01T18:30:00+02:00", updated.LastUpdated)

	_, err = registry.Update(ctx, "ghost", models.ParkingUpdate{Paid: boolPtr(false)})
	assert.ErrorIs(t, err, models.ErrParkingNotFound)

	_, err = registry.Update(ctx, p.ID, models.ParkingUpdate{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = registry.Update(ctx, p.ID, models.ParkingUpdate{Capacity: intPtr(-3)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
