package metrics

import "github.com/prometheus/client_golang/prometheus"

// ReservationMetrics counts booking and account review outcomes.
type ReservationMetrics struct {
	bookingsCreated  prometheus.Counter
	slotConflicts    prometheus.Counter
	bookingDecisions *prometheus.CounterVec
	accountDecisions *prometheus.CounterVec
}

// NewReservationMetrics registers the domain counters on the provided registerer.
func NewReservationMetrics(reg prometheus.Registerer) *ReservationMetrics {
	if reg == nil {
		return &ReservationMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings accepted for review.",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_slot_conflicts_total",
		Help: "Booking requests refused because the slot was taken.",
	})
	bookingDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_decisions_total",
		Help: "Booking status transitions by target status.",
	}, []string{"status"})
	accountDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "account_decisions_total",
		Help: "User approval decisions by outcome.",
	}, []string{"status"})
	reg.MustRegister(created, conflicts, bookingDecisions, accountDecisions)
	return &ReservationMetrics{
		bookingsCreated:  created,
		slotConflicts:    conflicts,
		bookingDecisions: bookingDecisions,
		accountDecisions: accountDecisions,
	}
}

// IncBookingCreated counts a newly created booking.
func (m *ReservationMetrics) IncBookingCreated() {
	if m == nil || m.bookingsCreated == nil {
		return
	}
	m.bookingsCreated.Inc()
}

// IncSlotConflict counts a refused booking.
func (m *ReservationMetrics) IncSlotConflict() {
	if m == nil || m.slotConflicts == nil {
		return
	}
	m.slotConflicts.Inc()
}

// IncBookingDecision counts a booking moved to status.
func (m *ReservationMetrics) IncBookingDecision(status string) {
	if m == nil || m.bookingDecisions == nil {
		return
	}
	m.bookingDecisions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncAccountDecision counts an account moved to status.
func (m *ReservationMetrics) IncAccountDecision(status string) {
	if m == nil || m.accountDecisions == nil {
		return
	}
	m.accountDecisions.WithLabelValues(normalizeLabel(status)).Inc()
}
