// internal/transport/grpcapi/codec.go
package grpcapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/taskboard/internal/models"
)

// Messages travel as google.protobuf.Struct. Values are converted through
// their JSON form so the wire shape matches the HTTP API.

type idRequest struct {
	ID string `json:"id"`
}

type statusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type taskList struct {
	Tasks []*models.Task `json:"tasks"`
}

func encodeMessage(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

// decodeMessage fills v from s. Malformed payloads are validation errors.
func decodeMessage(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return models.NewValidationError("", "malformed request")
	}
	if err := json.Unmarshal(data, v); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return models.NewValidationError("", "malformed request")
	}
	return nil
}

func decodeID(s *structpb.Struct) (string, error) {
	var req idRequest
	if err := decodeMessage(s, &req); err != nil {
		return "", err
	}
	if req.ID == "" {
		return "", models.NewValidationError("id", "id is required")
	}
	return req.ID, nil
}
