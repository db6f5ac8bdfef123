package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "factsaura-backend/pkg/errors"
)

type fakeCommand struct {
	Fail bool
}

func (c fakeCommand) Validate() error {
	if c.Fail {
		return errors.New("invalid")
	}
	return nil
}

func TestCommandBusDispatch(t *testing.T) {
	commandBus := NewCommandBus()

	err := commandBus.Register(fakeCommand{}, CommandHandlerFunc(
		func(ctx context.Context, cmd Command) (interface{}, error) {
			return "handled", nil
		}))
	require.NoError(t, err)

	result, err := commandBus.Send(context.Background(), fakeCommand{})
	require.NoError(t, err)
	assert.Equal(t, "handled", result)
}

func TestCommandBusRejectsDuplicateRegistration(t *testing.T) {
	commandBus := NewCommandBus()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return nil, nil
	})

	require.NoError(t, commandBus.Register(fakeCommand{}, handler))
	assert.Error(t, commandBus.Register(fakeCommand{}, handler))
}

func TestCommandBusValidatesBeforeDispatch(t *testing.T) {
	commandBus := NewCommandBus()
	called := false

	require.NoError(t, commandBus.Register(fakeCommand{}, CommandHandlerFunc(
		func(ctx context.Context, cmd Command) (interface{}, error) {
			called = true
			return nil, nil
		})))

	_, err := commandBus.Send(context.Background(), fakeCommand{Fail: true})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, called)
}

func TestCommandBusUnregisteredCommand(t *testing.T) {
	commandBus := NewCommandBus()

	_, err := commandBus.Send(context.Background(), fakeCommand{})
	assert.Error(t, err)
}

func TestPipelineOrdering(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	pipeline := NewPipeline(mk("outer"), mk("inner"))
	handler := pipeline.Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	}))

	_, err := handler.Handle(context.Background(), fakeCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	wrapped := LoggingMiddleware(zap.NewNop())(CommandHandlerFunc(
		func(ctx context.Context, cmd Command) (interface{}, error) {
			return 42, nil
		}))

	result, err := wrapped.Handle(context.Background(), fakeCommand{})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}
