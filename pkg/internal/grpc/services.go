package grpc

import (
	"context"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (v *App) BroadcastEvent(ctx context.Context, in *EventInfo) (*EventResponse, error) {
	switch in.Event {
	case "deletion":
		var data struct {
			Type string `json:"type"`
			ID   int64  `json:"id"`
		}
		if err := jsoniter.Unmarshal(in.Data, &data); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid deletion event: %v", err)
		}
		if err := v.core.HandleDeletionEvent(ctx, data.Type, data.ID); err != nil {
			log.Error().Err(err).Str("type", data.Type).Int64("id", data.ID).Msg("An error occurred when handling deletion event...")
			return nil, status.Error(codeOf(err), err.Error())
		}
		return &EventResponse{Handled: true}, nil
	case "notification":
		var data models.Notification
		if err := jsoniter.Unmarshal(in.Data, &data); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid notification event: %v", err)
		}
		if _, err := v.core.Notifications.Insert(ctx, data); err != nil {
			log.Error().Err(err).Int64("id", data.ID).Msg("An error occurred when delivering notification event...")
			return nil, status.Error(codeOf(err), err.Error())
		}
		return &EventResponse{Handled: true}, nil
	}

	return &EventResponse{}, nil
}

func codeOf(err error) codes.Code {
	switch errs.TypeOf(err) {
	case errs.ErrorTypeValidation:
		return codes.InvalidArgument
	case errs.ErrorTypeRestricted:
		return codes.FailedPrecondition
	case errs.ErrorTypeNotFound:
		return codes.NotFound
	case errs.ErrorTypeDuplicateKey:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}
