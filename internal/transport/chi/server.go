package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dataapi/internal/domain"
	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
	"github.com/kailas-cloud/dataapi/internal/domain/command"
	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
	logpkg "github.com/kailas-cloud/dataapi/internal/logger"
	"github.com/kailas-cloud/dataapi/internal/metrics"
	collectionuc "github.com/kailas-cloud/dataapi/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/dataapi/internal/usecase/document"
	healthuc "github.com/kailas-cloud/dataapi/internal/usecase/health"
)

const maxBodyBytes = 4 << 20

// reply is the Data API response envelope. Command errors are reported here
// with HTTP 200, never through the status code.
type reply struct {
	Status map[string]any           `json:"status,omitempty"`
	Data   map[string]any           `json:"data,omitempty"`
	Errors []domain.ErrorDescriptor `json:"errors,omitempty"`
}

// errorCode maps a domain sentinel to the Data API error code it produces.
type errorCode struct {
	sentinel error
	code     string
}

var errorCodes = []errorCode{
	{domain.ErrCollectionNotFound, domain.CodeCollectionNotExist},
	{domain.ErrAlreadyExists, domain.CodeExistingCollectionDifferent},
	{domain.ErrKeyspaceNotFound, domain.CodeKeyspaceNotExist},
	{domain.ErrUnknownCommand, domain.CodeUnknownCommand},
	{domain.ErrDocumentExists, domain.CodeDocumentAlreadyExists},
	{domain.ErrVectorizeUnavailable, domain.CodeVectorizeNotConfigured},
	{domain.ErrEmbeddingProviderError, domain.CodeEmbeddingProviderError},
	{domain.ErrNamespaceRequired, domain.CodeInvalidRequest},
	{domain.ErrInvalidOptions, domain.CodeInvalidRequest},
	{domain.ErrInvalidCommand, domain.CodeInvalidRequest},
}

// Server dispatches Data API commands to the use cases.
type Server struct {
	collections *collectionuc.Service
	documents   *documentuc.Service
	health      *healthuc.Service
	logger      *zap.Logger
}

// NewServer creates the command server.
func NewServer(
	collections *collectionuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		collections: collections,
		documents:   documents,
		health:      health,
		logger:      logger,
	}
}

// Command handles POST {apiPath}/{namespace} and {apiPath}/{namespace}/{collection}.
func (s *Server) Command(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target := command.Target{
		Namespace:  chi.URLParam(r, "namespace"),
		Collection: chi.URLParam(r, "collection"),
	}

	doc, err := decodeBody(r.Body)
	if err != nil {
		s.writeCommandError(ctx, w, "", fmt.Errorf("%w: %w", domain.ErrInvalidCommand, err))
		return
	}
	env, err := command.Parse(doc, target)
	if err != nil {
		s.writeCommandError(ctx, w, "", err)
		return
	}
	ctx = logpkg.WithFields(ctx,
		zap.String("command", env.Op()),
		zap.String("target", target.Path()),
	)
	if err := s.collections.CheckNamespace(target.Namespace); err != nil {
		s.writeCommandError(ctx, w, env.Op(), err)
		return
	}

	var out reply
	if target.IsCollection() {
		out, err = s.collectionCommand(ctx, env)
	} else {
		out, err = s.namespaceCommand(ctx, env)
	}
	if err != nil {
		s.writeCommandError(ctx, w, env.Op(), err)
		return
	}

	metrics.CommandFromContext(ctx).Record(env.Op(), "")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) namespaceCommand(ctx context.Context, env command.Envelope) (reply, error) {
	ns := env.Target().Namespace
	body := env.Body()

	switch env.Op() {
	case command.OpCreateCollection:
		name, _ := body["name"].(string)
		opts, err := optionsFromBody(body)
		if err != nil {
			return reply{}, err
		}
		if _, err := s.collections.Create(ctx, ns, name, opts); err != nil {
			return reply{}, err
		}
		return okReply(), nil

	case command.OpFindCollections:
		list, err := s.collections.List(ctx, ns)
		if err != nil {
			return reply{}, err
		}
		items := make([]any, len(list))
		for i, d := range list {
			if explain(body) {
				items[i] = d.ToMap()
			} else {
				items[i] = d.Name
			}
		}
		return reply{Status: map[string]any{"collections": items}}, nil

	case command.OpDeleteCollection:
		name, _ := body["name"].(string)
		if name == "" {
			return reply{}, fmt.Errorf("%w: deleteCollection requires a name", domain.ErrInvalidCommand)
		}
		if err := s.collections.Delete(ctx, ns, name); err != nil {
			return reply{}, err
		}
		return okReply(), nil

	default:
		return reply{}, fmt.Errorf("%w: %q is not a namespace command", domain.ErrUnknownCommand, env.Op())
	}
}

func (s *Server) collectionCommand(ctx context.Context, env command.Envelope) (reply, error) {
	ns, coll := env.Target().Namespace, env.Target().Collection
	body := env.Body()

	filter, err := objectField(body, "filter")
	if err != nil {
		return reply{}, err
	}

	switch env.Op() {
	case command.OpInsertOne:
		doc, err := objectField(body, "document")
		if err != nil {
			return reply{}, err
		}
		if doc == nil {
			return reply{}, fmt.Errorf("%w: insertOne requires a document", domain.ErrInvalidCommand)
		}
		id, err := s.documents.Insert(ctx, ns, coll, doc)
		if err != nil {
			return reply{}, err
		}
		return reply{Status: map[string]any{"insertedIds": []any{domdoc.EncodeID(id)}}}, nil

	case command.OpFindOne:
		doc, ok, err := s.documents.FindOne(ctx, ns, coll, filter)
		if err != nil {
			return reply{}, err
		}
		var found any
		if ok {
			found = doc.ToMap()
		}
		return reply{Data: map[string]any{"document": found}}, nil

	case command.OpCountDocuments:
		n, more, err := s.documents.Count(ctx, ns, coll, filter)
		if err != nil {
			return reply{}, err
		}
		status := map[string]any{"count": n}
		if more {
			status["moreData"] = true
		}
		return reply{Status: status}, nil

	case command.OpDeleteMany:
		n, err := s.documents.DeleteMany(ctx, ns, coll, filter)
		if err != nil {
			return reply{}, err
		}
		return reply{Status: map[string]any{"deletedCount": n}}, nil

	default:
		return reply{}, fmt.Errorf("%w: %q is not a collection command", domain.ErrUnknownCommand, env.Op())
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) writeCommandError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code, msg := classify(err)
	log := logpkg.FromContext(ctx)
	if code == domain.CodeServerError {
		log.Error("command failed", zap.Error(err))
	} else {
		log.Debug("command rejected", zap.String("error_code", code), zap.Error(err))
	}

	metrics.CommandFromContext(ctx).Record(op, code)
	writeJSON(w, http.StatusOK, reply{
		Errors: []domain.ErrorDescriptor{{Message: msg, ErrorCode: code}},
	})
}

// classify returns the error code and client-facing message of err.
// Unmapped errors are reported without their internal detail.
func classify(err error) (code, msg string) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.sentinel) {
			return ec.code, err.Error()
		}
	}
	return domain.CodeServerError, "internal error"
}

func decodeBody(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return doc, nil
}

func optionsFromBody(body map[string]any) (domcol.Options, error) {
	raw, err := objectField(body, "options")
	if err != nil {
		return domcol.Options{}, err
	}
	opts, err := domcol.FromMap(raw)
	if err != nil {
		return domcol.Options{}, fmt.Errorf("%w: %w", domain.ErrInvalidOptions, err)
	}
	return opts, nil
}

// objectField returns body[key] as an object. A missing or null key yields nil.
func objectField(body map[string]any, key string) (map[string]any, error) {
	switch v := body[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s must be an object, got %T", domain.ErrInvalidCommand, key, v)
	}
}

func explain(body map[string]any) bool {
	opts, _ := body["options"].(map[string]any)
	v, _ := opts["explain"].(bool)
	return v
}

func okReply() reply {
	return reply{Status: map[string]any{"ok": 1}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
