package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/usecase/city"
	"city-api/pkg/log"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// AttractionProcessor consumes refresh messages and re-fetches attractions
// for the snapshot carried in each message.
type AttractionProcessor struct {
	cityUseCase city.UseCase
}

func NewAttractionProcessor(cityUseCase city.UseCase) *AttractionProcessor {
	return &AttractionProcessor{
		cityUseCase: cityUseCase,
	}
}

// HandleMessage implements the sqs.Handler interface
func (p *AttractionProcessor) HandleMessage(ctx context.Context, msg types.Message) error {
	if msg.Body == nil {
		return fmt.Errorf("received message without body")
	}

	log.Infof("Processing attraction refresh message: %s", safeID(msg))

	var snapshot entity.City
	if err := json.Unmarshal([]byte(*msg.Body), &snapshot); err != nil {
		return fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if err := p.cityUseCase.RefreshCityAttractions(snapshot); err != nil {
		return fmt.Errorf("failed to refresh attractions for %s: %w", snapshot.Name, err)
	}

	log.Infof("Successfully refreshed attractions for city: %s", snapshot.Name)
	return nil
}

func safeID(msg types.Message) string {
	if msg.MessageId == nil {
		return ""
	}
	return *msg.MessageId
}
