package launch

import (
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
)

// Field names of an encoded payload.
const (
	fieldID             = "id"
	fieldAction         = "action"
	fieldFlags          = "flags"
	fieldDestination    = "destination"
	fieldDistanceMeters = "distance_meters"
	fieldIssuedAt       = "issued_at"
)

// EncodePayload converts a payload into a protobuf Struct.
func EncodePayload(payload *domain.LaunchPayload) (*structpb.Struct, error) {
	flags := make([]any, 0, len(payload.Flags.Names()))
	for _, name := range payload.Flags.Names() {
		flags = append(flags, name)
	}

	fields := map[string]any{
		fieldID:     payload.ID,
		fieldAction: string(payload.Action),
		fieldFlags:  flags,
	}

	if payload.IsAlarm() {
		fields[fieldDestination] = payload.Destination
		// JSON numbers cannot hold NaN or infinities, so the distance is kept as text.
		fields[fieldDistanceMeters] = strconv.FormatFloat(payload.DistanceMeters, 'g', -1, 64)
	}

	if !payload.IssuedAt.IsZero() {
		fields[fieldIssuedAt] = payload.IssuedAt.UTC().Format(time.RFC3339Nano)
	}

	encoded, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode launch payload: %w", err)
	}

	return encoded, nil
}

// DecodePayload converts a protobuf Struct back into a payload.
func DecodePayload(encoded *structpb.Struct) (*domain.LaunchPayload, error) {
	fields := encoded.GetFields()

	payload := &domain.LaunchPayload{
		ID:          fields[fieldID].GetStringValue(),
		Action:      domain.Action(fields[fieldAction].GetStringValue()),
		Destination: fields[fieldDestination].GetStringValue(),
	}

	distance, err := decodeDistance(fields[fieldDistanceMeters])
	if err != nil {
		return nil, err
	}

	payload.DistanceMeters = distance

	names := make([]string, 0, len(fields[fieldFlags].GetListValue().GetValues()))
	for _, value := range fields[fieldFlags].GetListValue().GetValues() {
		names = append(names, value.GetStringValue())
	}

	payload.Flags = domain.ParseLaunchFlags(names)

	if raw := fields[fieldIssuedAt].GetStringValue(); raw != "" {
		issuedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decode issued_at: %w", err)
		}

		payload.IssuedAt = issuedAt
	}

	return payload, nil
}

// decodeDistance accepts the textual form and plain JSON numbers.
func decodeDistance(value *structpb.Value) (float64, error) {
	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		distance, err := strconv.ParseFloat(kind.StringValue, 64)
		if err != nil {
			return 0, fmt.Errorf("decode distance_meters: %w", err)
		}

		return distance, nil
	case *structpb.Value_NumberValue:
		return kind.NumberValue, nil
	default:
		return 0, nil
	}
}
