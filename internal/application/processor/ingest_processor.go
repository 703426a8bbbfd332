package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/usecase/pipeline"
	"go-ingest/internal/infra/observability"
	"go-ingest/pkg/log"
)

const queueTrigger = "queue"

// IngestProcessor runs the pipeline for ingest requests read from SQS
type IngestProcessor struct {
	pipelineUseCase pipeline.UseCase
}

func NewIngestProcessor(pipelineUseCase pipeline.UseCase) *IngestProcessor {
	return &IngestProcessor{
		pipelineUseCase: pipelineUseCase,
	}
}

// HandleMessage implements the sqs.Handler interface. The SQS message id becomes the run
// request id. Requests naming unknown entities are acknowledged and dropped since a
// redelivery cannot succeed.
func (p *IngestProcessor) HandleMessage(ctx context.Context, msg *types.Message) error {
	if msg == nil || msg.Body == nil {
		return fmt.Errorf("received nil message or message body")
	}

	var request model.IngestRequestDTO
	if err := json.Unmarshal([]byte(*msg.Body), &request); err != nil {
		log.Error("Dropping unreadable ingest request", zap.String("message_id", messageID(msg)), zap.Error(err))
		return nil
	}

	requestID := messageID(msg)
	log.Info("Processing ingest request", zap.String("request_id", requestID), zap.Strings("cities", request.Cities))

	response, err := p.pipelineUseCase.RunEntities(ctx, requestID, request.Cities, request.Entities)
	if errors.Is(err, pipeline.ErrUnknownEntity) {
		log.Error("Dropping ingest request", zap.String("request_id", requestID), zap.Error(err))
		return nil
	}
	observability.RecordPipelineRun(queueTrigger, err)
	if err != nil {
		return fmt.Errorf("ingest request %s: %w", requestID, err)
	}

	log.Info("Ingest request processed", zap.String("request_id", requestID), zap.Int("tables", len(response.Results)))
	return nil
}

func messageID(msg *types.Message) string {
	if msg.MessageId == nil {
		return ""
	}
	return *msg.MessageId
}
