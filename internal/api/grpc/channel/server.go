package channel

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
)

// Service abstracts the command handling the transport layer depends on.
// Every method returns a plain result; failures are already converted to false.
type Service interface {
	CanScheduleExactAlarms(ctx context.Context) bool
	OpenAlarmPermissionSettings(ctx context.Context) bool
	BringToFront(ctx context.Context) bool
	ShowFullScreenAlarm(ctx context.Context, destination *string, distanceMeters *float64) bool
}

// Server implements the AlarmChannel gRPC API.
type Server struct {
	// service provides the command handling.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Invoke decodes the command and dispatches it to the service.
func (s *Server) Invoke(ctx context.Context, request *structpb.Struct) (*wrapperspb.BoolValue, error) {
	if request == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	methodValue, ok := request.GetFields()[FieldMethod]
	if !ok || methodValue.GetStringValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "method is required")
	}

	command, ok := domain.ParseCommand(methodValue.GetStringValue())
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "method %q is not implemented", methodValue.GetStringValue())
	}

	arguments := request.GetFields()[FieldArguments].GetStructValue().GetFields()

	var result bool

	switch command {
	case domain.CommandCanScheduleExactAlarms:
		result = s.service.CanScheduleExactAlarms(ctx)
	case domain.CommandOpenAlarmPermissionSettings:
		result = s.service.OpenAlarmPermissionSettings(ctx)
	case domain.CommandBringToFront:
		result = s.service.BringToFront(ctx)
	case domain.CommandShowFullScreenAlarm:
		destination, distance, err := alarmArguments(arguments)
		if err != nil {
			logger.WarnKV(ctx, "Rejected alarm arguments", "method", string(command), "error", err)

			return wrapperspb.Bool(false), nil
		}

		result = s.service.ShowFullScreenAlarm(ctx, destination, distance)
	}

	return wrapperspb.Bool(result), nil
}

// alarmArguments extracts the optional, typed arguments of showFullScreenAlarm.
// Absent and null arguments are reported as nil so the defaults apply; a wrong
// type answers false without reaching the service.
func alarmArguments(arguments map[string]*structpb.Value) (*string, *float64, error) {
	var (
		destination *string
		distance    *float64
	)

	if value, ok := arguments[domain.ArgumentDestination]; ok && !isNull(value) {
		text, ok := value.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, nil, fmt.Errorf("argument %q must be a string", domain.ArgumentDestination)
		}

		destination = &text.StringValue
	}

	if value, ok := arguments[domain.ArgumentDistance]; ok && !isNull(value) {
		number, ok := value.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, nil, fmt.Errorf("argument %q must be a number", domain.ArgumentDistance)
		}

		distance = &number.NumberValue
	}

	return destination, distance, nil
}

func isNull(value *structpb.Value) bool {
	if value == nil || value.GetKind() == nil {
		return true
	}

	_, null := value.GetKind().(*structpb.Value_NullValue)

	return null
}

// NewRequest builds an Invoke request. Nil arguments are omitted.
func NewRequest(command domain.Command, arguments map[string]any) (*structpb.Struct, error) {
	fields := map[string]any{
		FieldMethod: string(command),
	}

	if len(arguments) > 0 {
		fields[FieldArguments] = arguments
	}

	request, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	return request, nil
}
