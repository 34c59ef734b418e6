package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
)

// ConditionEvaluator produces an assessment for a decoded request under a
// caller-chosen id.
type ConditionEvaluator interface {
	EvaluateWithID(req domain.ConditionRequest, id string) (domain.ActivityCondition, error)
}

// ConditionTransformer implements Transformer: it decodes a condition
// request, evaluates it and serializes the verdict for the sink.
type ConditionTransformer struct {
	evaluator ConditionEvaluator
}

// NewTransformer creates a ConditionTransformer.
func NewTransformer(evaluator ConditionEvaluator) *ConditionTransformer {
	return &ConditionTransformer{evaluator: evaluator}
}

// Transform keys the condition by MessageID, so a redelivered message yields
// the same id and the same sink key.
func (t *ConditionTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseConditionRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	cond, err := t.evaluator.EvaluateWithID(req, MessageID(raw))
	if err != nil {
		return domain.OutputEvent{}, err
	}

	return domain.SerializeCondition(cond)
}

// MessageID derives a name-based UUID from the message's topic, partition and
// offset.
func MessageID(raw domain.RawEvent) string {
	name := fmt.Sprintf("kafka://%s/%d/%d", raw.Topic, raw.Partition, raw.Offset)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
