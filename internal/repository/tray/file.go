package tray

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/repository/launch"
)

// Repository stores posted alerts keyed by id.
type Repository interface {
	Put(ctx context.Context, alert *domain.Alert) error
	List(ctx context.Context) ([]*domain.Alert, error)
	Remove(ctx context.Context, id int) error
}

// FileRepository persists posted alerts to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the tray file.
	path string
	// mu protects concurrent access to the tray file.
	mu sync.Mutex
}

// errNilAlert is returned when Put receives nil.
var errNilAlert = errors.New("alert is nil")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Put posts the alert, replacing any alert with the same id.
func (r *FileRepository) Put(_ context.Context, alert *domain.Alert) error {
	if alert == nil {
		return errNilAlert
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	alerts, err := r.load()
	if err != nil {
		return err
	}

	encoded, err := encodeAlert(alert)
	if err != nil {
		return err
	}

	alerts.Fields[strconv.Itoa(alert.ID)] = structpb.NewStructValue(encoded)

	return r.save(alerts)
}

// List returns the posted alerts ordered by id.
func (r *FileRepository) List(_ context.Context) ([]*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alerts, err := r.load()
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Alert, 0, len(alerts.GetFields()))

	for _, value := range alerts.GetFields() {
		alert, err := decodeAlert(value.GetStructValue())
		if err != nil {
			return nil, err
		}

		result = append(result, alert)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Remove dismisses the alert with the given id. Removing an absent alert is not an error.
func (r *FileRepository) Remove(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	alerts, err := r.load()
	if err != nil {
		return err
	}

	delete(alerts.Fields, strconv.Itoa(id))

	return r.save(alerts)
}

func (r *FileRepository) load() (*structpb.Struct, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
		}

		return nil, fmt.Errorf("read tray file: %w", err)
	}

	var alerts structpb.Struct
	if err = protojson.Unmarshal(contents, &alerts); err != nil {
		return nil, fmt.Errorf("decode tray file: %w", err)
	}

	if alerts.Fields == nil {
		alerts.Fields = map[string]*structpb.Value{}
	}

	return &alerts, nil
}

func (r *FileRepository) save(alerts *structpb.Struct) error {
	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
		Indent:    "  ",
	}

	data, err := marshalOptions.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encode tray: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write tray file: %w", err)
	}

	return nil
}

// encodeAlert converts the domain alert into a protobuf Struct.
func encodeAlert(alert *domain.Alert) (*structpb.Struct, error) {
	flags := make([]any, 0, len(alert.Flags.Names()))
	for _, name := range alert.Flags.Names() {
		flags = append(flags, name)
	}

	fields := map[string]any{
		"id":         alert.ID,
		"channel_id": alert.ChannelID,
		"title":      alert.Title,
		"body":       alert.Body,
		"small_icon": alert.SmallIcon,
		"priority":   int(alert.Priority),
		"category":   string(alert.Category),
		"visibility": string(alert.Visibility),
		"flags":      flags,
	}

	if !alert.PostedAt.IsZero() {
		fields["posted_at"] = alert.PostedAt.UTC().Format(time.RFC3339Nano)
	}

	encoded, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode alert: %w", err)
	}

	for name, payload := range map[string]*domain.LaunchPayload{
		"full_screen_action": alert.FullScreenAction,
		"content_action":     alert.ContentAction,
	} {
		if payload == nil {
			continue
		}

		action, err := launch.EncodePayload(payload)
		if err != nil {
			return nil, err
		}

		encoded.Fields[name] = structpb.NewStructValue(action)
	}

	return encoded, nil
}

// decodeAlert converts a protobuf Struct back into a domain alert.
func decodeAlert(encoded *structpb.Struct) (*domain.Alert, error) {
	fields := encoded.GetFields()

	names := make([]string, 0, len(fields["flags"].GetListValue().GetValues()))
	for _, value := range fields["flags"].GetListValue().GetValues() {
		names = append(names, value.GetStringValue())
	}

	alert := &domain.Alert{
		ID:         int(fields["id"].GetNumberValue()),
		ChannelID:  fields["channel_id"].GetStringValue(),
		Title:      fields["title"].GetStringValue(),
		Body:       fields["body"].GetStringValue(),
		SmallIcon:  fields["small_icon"].GetStringValue(),
		Priority:   domain.Priority(fields["priority"].GetNumberValue()),
		Category:   domain.Category(fields["category"].GetStringValue()),
		Visibility: domain.Visibility(fields["visibility"].GetStringValue()),
		Flags:      domain.ParseAlertFlags(names),
	}

	if raw := fields["posted_at"].GetStringValue(); raw != "" {
		postedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decode posted_at: %w", err)
		}

		alert.PostedAt = postedAt
	}

	if action := fields["full_screen_action"].GetStructValue(); action != nil {
		payload, err := launch.DecodePayload(action)
		if err != nil {
			return nil, err
		}

		alert.FullScreenAction = payload
	}

	if action := fields["content_action"].GetStructValue(); action != nil {
		payload, err := launch.DecodePayload(action)
		if err != nil {
			return nil, err
		}

		alert.ContentAction = payload
	}

	return alert, nil
}
