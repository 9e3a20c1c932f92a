//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stayops/reservation-core/internal/models"
	"github.com/stayops/reservation-core/internal/repository"
	"github.com/stayops/reservation-core/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	rates        service.RateService
	bookings     service.BookingService
	assignments  service.AssignmentService
	participants service.ParticipantService
	folios       service.FolioService
	lifecycle    service.LifecycleService
}

func newServices() *services {
	catalogRepo := repository.NewCatalogRepository(testDB)
	pricingRepo := repository.NewPricingRuleRepository(testDB)
	bookingRepo := repository.NewBookingRepository(testDB)
	assignmentRepo := repository.NewAssignmentRepository(testDB)
	participantRepo := repository.NewParticipantRepository(testDB)
	folioRepo := repository.NewFolioRepository(testDB)

	rates := service.NewRateService(catalogRepo, pricingRepo, nil)
	return &services{
		rates:        rates,
		bookings:     service.NewBookingService(bookingRepo, folioRepo, rates, nil),
		assignments:  service.NewAssignmentService(assignmentRepo, bookingRepo, catalogRepo),
		participants: service.NewParticipantService(participantRepo, bookingRepo),
		folios:       service.NewFolioService(folioRepo, bookingRepo, nil),
		lifecycle:    service.NewLifecycleService(bookingRepo, assignmentRepo, participantRepo, folioRepo, nil),
	}
}

var catalogIDCounter uint = 0

func nextCatalogID() uint {
	catalogIDCounter++
	return catalogIDCounter
}

func stayDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestProperty(t *testing.T, name string) *models.Property {
	t.Helper()
	property := &models.Property{ID: nextCatalogID(), Name: name, Timezone: "UTC"}
	require.NoError(t, testDB.Create(property).Error)
	return property
}

func createTestRoomType(t *testing.T, propertyID uint, name string, basePrice float64, maxGuests int) *models.RoomType {
	t.Helper()
	roomType := &models.RoomType{
		ID:         nextCatalogID(),
		PropertyID: propertyID,
		Name:       name,
		BasePrice:  basePrice,
		MaxGuests:  maxGuests,
	}
	require.NoError(t, testDB.Create(roomType).Error)
	return roomType
}

func createTestRoom(t *testing.T, propertyID, roomTypeID uint, number string) *models.Room {
	t.Helper()
	room := &models.Room{
		ID:         nextCatalogID(),
		PropertyID: propertyID,
		RoomTypeID: roomTypeID,
		Number:     number,
	}
	require.NoError(t, testDB.Create(room).Error)
	return room
}

func createTestBooking(t *testing.T, svc *services, propertyID, roomTypeID uint, checkIn, checkOut time.Time) *models.Booking {
	t.Helper()
	booking, err := svc.bookings.CreateBooking(context.Background(), service.CreateBookingInput{
		Quote: service.QuoteRequest{
			PropertyID: propertyID,
			RoomTypeID: roomTypeID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Guests:     2,
		},
		GuestName: "Mara Lindqvist",
	})
	require.NoError(t, err)
	return booking
}

// Test: quote → booking → room → participant → check-in → postings → close →
// check-out → completed, the whole stay end to end against a real database.
func TestReservationLifecycle(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)
	room := createTestRoom(t, property.ID, roomType.ID, "301")

	modifier := 1.5
	require.NoError(t, testDB.Create(&models.PricingRule{
		PropertyID:    property.ID,
		RoomTypeID:    &roomType.ID,
		ValidFrom:     stayDate(2026, 7, 1),
		ValidUntil:    stayDate(2026, 7, 31),
		PriceModifier: &modifier,
		Active:        true,
	}).Error)

	checkIn := stayDate(2026, 7, 10)
	checkOut := stayDate(2026, 7, 12)

	quote, err := svc.rates.ResolveRate(context.Background(), service.QuoteRequest{
		PropertyID: property.ID,
		RoomTypeID: roomType.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.00, quote.Total)

	booking := createTestBooking(t, svc, property.ID, roomType.ID, checkIn, checkOut)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, 300.00, booking.Total, "stored total should match the server-side quote")

	// Folio is opened alongside the booking.
	view, err := svc.folios.GetFolio(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FolioOpen, view.Status)
	assert.Empty(t, view.Items)

	booking, err = svc.lifecycle.Transition(context.Background(), booking.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, booking.Status)

	assignment, err := svc.assignments.Assign(context.Background(), booking.ID, room.ID)
	require.NoError(t, err)
	assert.True(t, assignment.IsPrimary, "first assigned room becomes primary")

	participant, err := svc.participants.Add(context.Background(), booking.ID, service.AddParticipantInput{FullName: "Mara Lindqvist"})
	require.NoError(t, err)
	assert.True(t, participant.IsPrimary, "first participant becomes primary")

	booking, err = svc.lifecycle.Transition(context.Background(), booking.ID, "checked_in")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, booking.Status)

	_, err = svc.folios.AddCharge(context.Background(), booking.ID, "Room night 2026-07-10", 150.00, models.CategoryRate, nil)
	require.NoError(t, err)
	_, err = svc.folios.AddCharge(context.Background(), booking.ID, "Room night 2026-07-11", 150.00, models.CategoryRate, nil)
	require.NoError(t, err)
	_, err = svc.folios.AddCharge(context.Background(), booking.ID, "Minibar", 24.50, models.CategoryService, nil)
	require.NoError(t, err)

	_, err = svc.folios.AddPayment(context.Background(), booking.ID, 324.50, "card", nil)
	require.NoError(t, err)

	view, err = svc.folios.GetFolio(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 324.50, view.Totals.TotalCharges)
	assert.Equal(t, 324.50, view.Totals.TotalPaid)
	assert.Equal(t, 0.00, view.Totals.Balance)

	folio, err := svc.folios.Close(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FolioClosed, folio.Status)

	booking, err = svc.lifecycle.Transition(context.Background(), booking.ID, "checked_out")
	require.NoError(t, err)
	booking, err = svc.lifecycle.Transition(context.Background(), booking.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, booking.Status)

	// Terminal state: nothing further is allowed.
	_, err = svc.lifecycle.Transition(context.Background(), booking.ID, "confirmed")
	var guard *service.GuardError
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, service.ReasonWrongState, guard.Reason)
}

// Test: two bookings with overlapping stays cannot share a room; a booking
// for a disjoint window can.
func TestRoomAssignmentConflict(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)
	room := createTestRoom(t, property.ID, roomType.ID, "301")

	first := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 14))
	overlapping := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 12), stayDate(2026, 7, 16))
	adjacent := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 14), stayDate(2026, 7, 18))

	_, err := svc.assignments.Assign(context.Background(), first.ID, room.ID)
	require.NoError(t, err)

	_, err = svc.assignments.Assign(context.Background(), overlapping.ID, room.ID)
	assert.ErrorIs(t, err, service.ErrRoomConflict)

	// Check-out day equals check-in day of the next stay, so no shared night.
	_, err = svc.assignments.Assign(context.Background(), adjacent.ID, room.ID)
	assert.NoError(t, err)
}

// Test: check-in refuses without a primary room, then without a primary
// guest, in that order.
func TestCheckInGuards(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)
	room := createTestRoom(t, property.ID, roomType.ID, "301")

	booking := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 12))
	_, err := svc.lifecycle.Transition(context.Background(), booking.ID, "confirmed")
	require.NoError(t, err)

	var guard *service.GuardError
	_, err = svc.lifecycle.Transition(context.Background(), booking.ID, "checked_in")
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, service.ReasonMissingRoom, guard.Reason)

	_, err = svc.assignments.Assign(context.Background(), booking.ID, room.ID)
	require.NoError(t, err)

	_, err = svc.lifecycle.Transition(context.Background(), booking.ID, "checked_in")
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, service.ReasonMissingPrimaryGuest, guard.Reason)

	_, err = svc.participants.Add(context.Background(), booking.ID, service.AddParticipantInput{FullName: "Mara Lindqvist"})
	require.NoError(t, err)

	_, err = svc.lifecycle.Transition(context.Background(), booking.ID, "checked_in")
	assert.NoError(t, err)
}

// Test: concurrent check-in attempts on the same booking → exactly one
// succeeds, the rest hit the wrong-state guard.
func TestConcurrentCheckIn(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)
	room := createTestRoom(t, property.ID, roomType.ID, "301")

	booking := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 12))
	_, err := svc.lifecycle.Transition(context.Background(), booking.ID, "confirmed")
	require.NoError(t, err)
	_, err = svc.assignments.Assign(context.Background(), booking.ID, room.ID)
	require.NoError(t, err)
	_, err = svc.participants.Add(context.Background(), booking.ID, service.AddParticipantInput{FullName: "Mara Lindqvist"})
	require.NoError(t, err)

	attempts := 10
	var wg sync.WaitGroup
	successCount := 0
	var mu sync.Mutex

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.lifecycle.Transition(context.Background(), booking.ID, "checked_in")
			if err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "only one concurrent check-in should succeed")

	var stored models.Booking
	require.NoError(t, testDB.First(&stored, booking.ID).Error)
	assert.Equal(t, models.StatusCheckedIn, stored.Status)
}

// Test: legacy status strings from older channels drive the same machine.
func TestLegacyStatusTransition(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)

	booking := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 12))

	updated, err := svc.lifecycle.Transition(context.Background(), booking.ID, "reserved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	updated, err = svc.lifecycle.Transition(context.Background(), booking.ID, "noshow")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoShow, updated.Status)
}

// Test: legacy stored statuses behave like their canonical forms in the
// assignment path, both for the active-booking guard and for conflict
// detection against an occupied room.
func TestLegacyStatusAssignment(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)
	room := createTestRoom(t, property.ID, roomType.ID, "301")

	occupant := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 14))
	_, err := svc.assignments.Assign(context.Background(), occupant.ID, room.ID)
	require.NoError(t, err)

	// Rewrite both rows to legacy spellings, as a migrated dataset would have.
	require.NoError(t, testDB.Model(&models.Booking{}).
		Where("id = ?", occupant.ID).Update("status", "inhouse").Error)

	legacy := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 12), stayDate(2026, 7, 16))
	require.NoError(t, testDB.Model(&models.Booking{}).
		Where("id = ?", legacy.ID).Update("status", "booked").Error)

	// The legacy "booked" booking is active, so assignment is not refused on
	// state, and the legacy "inhouse" occupant still blocks the room.
	_, err = svc.assignments.Assign(context.Background(), legacy.ID, room.ID)
	assert.ErrorIs(t, err, service.ErrRoomConflict)

	// A different room assigns fine for the legacy-status booking.
	second := createTestRoom(t, property.ID, roomType.ID, "302")
	assignment, err := svc.assignments.Assign(context.Background(), legacy.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, assignment.IsPrimary)

	// A cancelled legacy spelling is still refused outright.
	cancelled := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 8, 1), stayDate(2026, 8, 3))
	require.NoError(t, testDB.Model(&models.Booking{}).
		Where("id = ?", cancelled.ID).Update("status", "canceled").Error)

	var guard *service.GuardError
	_, err = svc.assignments.Assign(context.Background(), cancelled.ID, second.ID)
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, service.ReasonWrongState, guard.Reason)
}

// Test: close refuses while the balance is positive, succeeds once settled,
// and a closed folio rejects further postings.
func TestFolioCloseBalanceGuard(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)

	booking := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 12))

	_, err := svc.folios.AddCharge(context.Background(), booking.ID, "Room night", 200.00, models.CategoryRate, nil)
	require.NoError(t, err)

	_, err = svc.folios.Close(context.Background(), booking.ID)
	assert.ErrorIs(t, err, service.ErrBalancePending)

	_, err = svc.folios.AddPayment(context.Background(), booking.ID, 200.00, "cash", nil)
	require.NoError(t, err)

	folio, err := svc.folios.Close(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FolioClosed, folio.Status)

	_, err = svc.folios.AddCharge(context.Background(), booking.ID, "Late charge", 10.00, models.CategoryService, nil)
	assert.ErrorIs(t, err, service.ErrFolioClosedLedger)

	_, err = svc.folios.Close(context.Background(), booking.ID)
	assert.ErrorIs(t, err, service.ErrFolioClosedLedger)
}

// Test: completion needs the folio closed even after check-out.
func TestCompleteRequiresClosedFolio(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)
	room := createTestRoom(t, property.ID, roomType.ID, "301")

	booking := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 12))
	_, err := svc.lifecycle.Transition(context.Background(), booking.ID, "confirmed")
	require.NoError(t, err)
	_, err = svc.assignments.Assign(context.Background(), booking.ID, room.ID)
	require.NoError(t, err)
	_, err = svc.participants.Add(context.Background(), booking.ID, service.AddParticipantInput{FullName: "Mara Lindqvist"})
	require.NoError(t, err)
	_, err = svc.lifecycle.Transition(context.Background(), booking.ID, "checked_in")
	require.NoError(t, err)

	// Check-out is unguarded: the open folio does not block departure.
	_, err = svc.lifecycle.Transition(context.Background(), booking.ID, "checked_out")
	require.NoError(t, err)

	var guard *service.GuardError
	_, err = svc.lifecycle.Transition(context.Background(), booking.ID, "completed")
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, service.ReasonFolioOpen, guard.Reason)

	_, err = svc.folios.Close(context.Background(), booking.ID)
	require.NoError(t, err)

	updated, err := svc.lifecycle.Transition(context.Background(), booking.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

// Test: a folio read taken while postings land concurrently is a consistent
// snapshot. Each payment is posted only after its matching charge committed,
// so a snapshot can never show more paid than charged; a skewed read (items
// and payments from different instants) could.
func TestFolioSnapshotConsistency(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)

	booking := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 12))

	pairs := 30
	done := make(chan error, 1)
	go func() {
		for i := 0; i < pairs; i++ {
			if _, err := svc.folios.AddCharge(context.Background(), booking.ID, fmt.Sprintf("Charge %d", i), 10.00, models.CategoryService, nil); err != nil {
				done <- err
				return
			}
			if _, err := svc.folios.AddPayment(context.Background(), booking.ID, 10.00, "card", nil); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			view, err := svc.folios.GetFolio(context.Background(), booking.ID)
			require.NoError(t, err)
			assert.Equal(t, 0.00, view.Totals.Balance)
			assert.Len(t, view.Items, pairs)
			assert.Len(t, view.Payments, pairs)
			return
		default:
			view, err := svc.folios.GetFolio(context.Background(), booking.ID)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, view.Totals.Balance, 0.00,
				"snapshot shows a payment without its earlier charge")
			assert.LessOrEqual(t, len(view.Payments), len(view.Items))
		}
	}
}

// Test: concurrent postings carrying the same idempotency key → exactly one
// lands on the folio.
func TestConcurrentDuplicatePayment(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)

	booking := createTestBooking(t, svc, property.ID, roomType.ID, stayDate(2026, 7, 10), stayDate(2026, 7, 12))

	key := "payment-retry-7f3a"
	attempts := 5
	var wg sync.WaitGroup
	successCount := 0
	var mu sync.Mutex

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.folios.AddPayment(context.Background(), booking.ID, 50.00, "card", &key)
			if err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "only one posting with the key should land")

	var count int64
	testDB.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

// Test: a scoped rule outranks an all-types rule over the same window.
func TestScopedRulePrecedence(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)

	override := 180.00
	modifier := 1.2
	require.NoError(t, testDB.Create(&models.PricingRule{
		PropertyID:    property.ID,
		ValidFrom:     stayDate(2026, 7, 1),
		ValidUntil:    stayDate(2026, 7, 31),
		PriceModifier: &modifier,
		Active:        true,
	}).Error)
	require.NoError(t, testDB.Create(&models.PricingRule{
		PropertyID:        property.ID,
		RoomTypeID:        &roomType.ID,
		ValidFrom:         stayDate(2026, 7, 1),
		ValidUntil:        stayDate(2026, 7, 31),
		BasePriceOverride: &override,
		Active:            true,
	}).Error)

	quote, err := svc.rates.ResolveRate(context.Background(), service.QuoteRequest{
		PropertyID: property.ID,
		RoomTypeID: roomType.ID,
		CheckIn:    stayDate(2026, 7, 10),
		CheckOut:   stayDate(2026, 7, 12),
		Guests:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 360.00, quote.Total, "scoped override should win both nights")
	for _, night := range quote.Nights {
		assert.Equal(t, 180.00, night.Price)
	}
}

// Test: every booking carries a distinct reference code.
func TestBookingReferenceCodesUnique(t *testing.T) {
	cleanTables()
	svc := newServices()

	property := createTestProperty(t, "Harborview Hotel")
	roomType := createTestRoomType(t, property.ID, "Deluxe King", 100.00, 3)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		booking := createTestBooking(t, svc, property.ID, roomType.ID,
			stayDate(2026, 7, 10+i), stayDate(2026, 7, 12+i))
		require.NotEmpty(t, booking.ReferenceCode)
		require.False(t, seen[booking.ReferenceCode], fmt.Sprintf("duplicate reference code %s", booking.ReferenceCode))
		seen[booking.ReferenceCode] = true
	}
}
