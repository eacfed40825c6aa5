package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/realtime"
)

// flakySumCourseRepo fails the first SumMetric call and serves the rest.
type flakySumCourseRepo struct {
	fakeCourseRepo
	failFirst bool
	calls     int
}

func (f *flakySumCourseRepo) SumMetric(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, metric domain.Metric) (int64, error) {
	f.calls++
	if f.failFirst && f.calls == 1 {
		return 0, errors.New("sum unavailable")
	}
	return f.fakeCourseRepo.SumMetric(ctx, tx, institutionIDs, metric)
}

func TestNotifierFanOut(t *testing.T) {
	operatorID := uuid.New()
	instA := uuid.New()
	instB := uuid.New()
	courseID := uuid.New()

	institutions := &fakeInstitutionRepo{byID: map[uuid.UUID]*domain.Institution{
		instA: {ID: instA, OperatorID: operatorID},
	}}
	// Institution A's courses hold 3 views, B's hold 2; the operator scope
	// spans both.
	courses := &fakeCourseRepo{totals: map[uuid.UUID]map[domain.Metric]int64{
		instA: {domain.MetricViews: 3},
		instB: {domain.MetricViews: 2},
	}}
	ownership := &fakeOwnership{institutions: map[uuid.UUID][]uuid.UUID{
		operatorID: {instA, instB},
	}}
	emitter := &captureEmitter{}

	n := NewMetricsNotifier(testLogger(t), emitter, institutions, courses, &fakeStudentRepo{}, ownership)
	n.MetricIncremented(context.Background(), instA, courseID, domain.MetricViews, 3)

	msgs := emitter.all()
	if len(msgs) != 2 {
		t.Fatalf("messages: got %d want 2", len(msgs))
	}

	instMsg := msgs[0]
	if instMsg.Channel != realtime.InstitutionChannel(instA) {
		t.Fatalf("institution channel: %s", instMsg.Channel)
	}
	if instMsg.Event != realtime.SSEEventMetricIncremented {
		t.Fatalf("institution event: %s", instMsg.Event)
	}
	instData := instMsg.Data.(map[string]any)
	if instData["new_count"].(int64) != 3 {
		t.Fatalf("new_count: %v", instData["new_count"])
	}
	if instData["institution_total"].(int64) != 3 {
		t.Fatalf("institution_total: %v", instData["institution_total"])
	}

	opMsg := msgs[1]
	if opMsg.Channel != realtime.OperatorChannel(operatorID) {
		t.Fatalf("operator channel: %s", opMsg.Channel)
	}
	if opMsg.Event != realtime.SSEEventOperatorTotalUpdated {
		t.Fatalf("operator event: %s", opMsg.Event)
	}
	opData := opMsg.Data.(map[string]any)
	if opData["total"].(int64) != 5 {
		t.Fatalf("operator total: %v", opData["total"])
	}
}

func TestNotifierInstitutionLookupFailure(t *testing.T) {
	emitter := &captureEmitter{}
	institutions := &fakeInstitutionRepo{getErr: errors.New("db down")}
	n := NewMetricsNotifier(testLogger(t), emitter, institutions, &fakeCourseRepo{}, &fakeStudentRepo{}, &fakeOwnership{})

	n.MetricIncremented(context.Background(), uuid.New(), uuid.New(), domain.MetricViews, 1)
	if len(emitter.all()) != 0 {
		t.Fatalf("emitted despite failed institution lookup")
	}
}

func TestNotifierOperatorMessageIndependentOfInstitutionTotal(t *testing.T) {
	operatorID := uuid.New()
	instA := uuid.New()

	institutions := &fakeInstitutionRepo{byID: map[uuid.UUID]*domain.Institution{
		instA: {ID: instA, OperatorID: operatorID},
	}}
	// First SumMetric call (institution scope) fails; second (operator scope)
	// succeeds.
	courses := &flakySumCourseRepo{
		fakeCourseRepo: fakeCourseRepo{totals: map[uuid.UUID]map[domain.Metric]int64{
			instA: {domain.MetricComparisons: 9},
		}},
		failFirst: true,
	}
	ownership := &fakeOwnership{institutions: map[uuid.UUID][]uuid.UUID{operatorID: {instA}}}
	emitter := &captureEmitter{}

	n := NewMetricsNotifier(testLogger(t), emitter, institutions, courses, &fakeStudentRepo{}, ownership)
	n.MetricIncremented(context.Background(), instA, uuid.New(), domain.MetricComparisons, 9)

	msgs := emitter.all()
	if len(msgs) != 1 {
		t.Fatalf("messages: got %d want 1", len(msgs))
	}
	if msgs[0].Channel != realtime.OperatorChannel(operatorID) {
		t.Fatalf("surviving message channel: %s", msgs[0].Channel)
	}
}

// Leads totals are pushed from the same source the dashboard reads them
// from: student account counts, not the lead_count counter column.
func TestNotifierLeadsTotalsFromStudents(t *testing.T) {
	operatorID := uuid.New()
	instA := uuid.New()
	instB := uuid.New()

	institutions := &fakeInstitutionRepo{byID: map[uuid.UUID]*domain.Institution{
		instA: {ID: instA, OperatorID: operatorID},
	}}
	// The counter column disagrees with the student counts on purpose.
	courses := &fakeCourseRepo{totals: map[uuid.UUID]map[domain.Metric]int64{
		instA: {domain.MetricLeads: 99},
		instB: {domain.MetricLeads: 99},
	}}
	students := &fakeStudentRepo{counts: map[uuid.UUID]int64{instA: 4, instB: 2}}
	ownership := &fakeOwnership{institutions: map[uuid.UUID][]uuid.UUID{
		operatorID: {instA, instB},
	}}
	emitter := &captureEmitter{}

	n := NewMetricsNotifier(testLogger(t), emitter, institutions, courses, students, ownership)
	n.MetricIncremented(context.Background(), instA, uuid.New(), domain.MetricLeads, 4)

	msgs := emitter.all()
	if len(msgs) != 2 {
		t.Fatalf("messages: got %d want 2", len(msgs))
	}
	instData := msgs[0].Data.(map[string]any)
	if instData["institution_total"].(int64) != 4 {
		t.Fatalf("institution_total: %v", instData["institution_total"])
	}
	opData := msgs[1].Data.(map[string]any)
	if opData["total"].(int64) != 6 {
		t.Fatalf("operator total: %v", opData["total"])
	}
}

func TestNotifierNilInstitution(t *testing.T) {
	emitter := &captureEmitter{}
	n := NewMetricsNotifier(testLogger(t), emitter, &fakeInstitutionRepo{}, &fakeCourseRepo{}, &fakeStudentRepo{}, &fakeOwnership{})
	n.MetricIncremented(context.Background(), uuid.Nil, uuid.New(), domain.MetricViews, 1)
	if len(emitter.all()) != 0 {
		t.Fatalf("emitted for nil institution")
	}
}
