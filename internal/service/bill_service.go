package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
	"github.com/mmynk/billsplit/pkg/api"
	"github.com/mmynk/billsplit/pkg/api/apiconnect"
)

// Ensure BillService implements the Connect handler interface
var _ apiconnect.BillServiceHandler = (*BillService)(nil)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BillService implements the Connect BillService.
type BillService struct {
	store      storage.Store
	jwtManager *auth.JWTManager
	metrics    *middleware.Metrics
}

// NewBillService creates a new BillService. metrics may be nil.
func NewBillService(store storage.Store, jwtManager *auth.JWTManager, metrics *middleware.Metrics) *BillService {
	return &BillService{
		store:      store,
		jwtManager: jwtManager,
		metrics:    metrics,
	}
}

// Calculate runs the split pipeline over a bill.
func (s *BillService) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	if err := validate.Struct(req.Msg); err != nil {
		slog.Error("Calculate validation failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	slog.Debug("Calculating bill",
		"people", len(req.Msg.People),
		"dishes", len(req.Msg.Dishes),
		"payments", len(req.Msg.Payments),
		"covers", len(req.Msg.Covers),
	)

	result := calculator.Calculate(ToBill(req.Msg))
	s.metrics.ObserveSettlements(len(result.Settlements))

	return connect.NewResponse(FromResult(result)), nil
}

// CreateSession saves a new session and returns its edit token.
func (s *BillService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	if err := validateSession(req.Msg, req.Msg.Data); err != nil {
		slog.Error("CreateSession validation failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	session := &models.Session{
		Title: req.Msg.Title,
		Data:  req.Msg.Data,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(session.ID)
	if err != nil {
		slog.Error("CreateSession: failed to generate edit token", "session_id", session.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Session created", "session_id", session.ID, "title", session.Title)

	return connect.NewResponse(&api.CreateSessionResponse{
		SessionID: session.ID,
		Title:     session.Title,
		EditToken: token,
		CreatedAt: session.CreatedAt,
	}), nil
}

// GetSession retrieves a session by ID. No token is needed to read.
func (s *BillService) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	if err := validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	session, err := s.store.GetSession(ctx, req.Msg.SessionID)
	if err != nil {
		slog.Error("GetSession failed", "session_id", req.Msg.SessionID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.GetSessionResponse{
		SessionID: session.ID,
		Title:     session.Title,
		Data:      session.Data,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}), nil
}

// UpdateSession replaces a session's data. An empty title keeps the current one.
func (s *BillService) UpdateSession(ctx context.Context, req *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.UpdateSessionResponse], error) {
	if err := validateSession(req.Msg, req.Msg.Data); err != nil {
		slog.Error("UpdateSession validation failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := checkEditToken(ctx, req.Msg.SessionID); err != nil {
		return nil, err
	}

	title := req.Msg.Title
	if title == "" {
		existing, err := s.store.GetSession(ctx, req.Msg.SessionID)
		if err != nil {
			slog.Error("UpdateSession: failed to get existing session", "session_id", req.Msg.SessionID, "error", err)
			return nil, storageError(err)
		}
		title = existing.Title
	}

	session := &models.Session{
		ID:    req.Msg.SessionID,
		Title: title,
		Data:  req.Msg.Data,
	}
	if err := s.store.UpdateSession(ctx, session); err != nil {
		slog.Error("UpdateSession failed", "session_id", session.ID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.UpdateSessionResponse{
		SessionID: session.ID,
		UpdatedAt: session.UpdatedAt,
	}), nil
}

// DeleteSession removes a session.
func (s *BillService) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	if err := validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := checkEditToken(ctx, req.Msg.SessionID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteSession(ctx, req.Msg.SessionID); err != nil {
		slog.Error("DeleteSession failed", "session_id", req.Msg.SessionID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Session deleted", "session_id", req.Msg.SessionID)
	return connect.NewResponse(&api.DeleteSessionResponse{}), nil
}

// checkEditToken verifies the request carried an edit token for sessionID.
func checkEditToken(ctx context.Context, sessionID string) error {
	if err := middleware.GetTokenError(ctx); err != nil {
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	if middleware.GetEditSessionID(ctx) != sessionID {
		return connect.NewError(connect.CodePermissionDenied, fmt.Errorf("edit token does not grant access to session %s", sessionID))
	}
	return nil
}

// validateSession checks the struct tags and that data is a JSON document.
func validateSession(msg any, data json.RawMessage) error {
	if err := validate.Struct(msg); err != nil {
		return err
	}
	if !json.Valid(data) || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("data must be a JSON document")
	}
	return nil
}

func storageError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
