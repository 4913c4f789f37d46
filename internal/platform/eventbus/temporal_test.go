package eventbus

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	notificationworkflows "github.com/verdavida/lawncare/internal/platform/temporal/workflows/notifications"
	"github.com/verdavida/lawncare/internal/shared/events"
)

type startCall struct {
	options  client.StartWorkflowOptions
	workflow interface{}
	args     []interface{}
}

type fakeStarter struct {
	calls []startCall
	err   error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.calls = append(f.calls, startCall{options: options, workflow: workflow, args: args})
	return nil, f.err
}

func TestTemporalPublisher_StartsWorkflowPerEvent(t *testing.T) {
	starter := &fakeStarter{}
	pub := NewTemporalPublisher(starter, nil)

	require.NoError(t, pub.Publish(context.Background(), events.EstimateSent{EstimateID: 7}))
	require.NoError(t, pub.Publish(context.Background(), events.CustomerCreated{CustomerID: 3}))

	require.Len(t, starter.calls, 2)
	sent := starter.calls[0]
	assert.Equal(t, notificationworkflows.TaskQueue, sent.options.TaskQueue)
	assert.Equal(t, enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE, sent.options.WorkflowIDReusePolicy)
	assert.True(t, strings.HasPrefix(sent.options.ID, events.EstimateSentName+"-"))
	assert.Equal(t, notificationworkflows.EstimateSentWorkflowName, sent.workflow)
	require.Len(t, sent.args, 1)
	input, ok := sent.args[0].(notificationworkflows.EstimateSentInput)
	require.True(t, ok)
	assert.Equal(t, int64(7), input.Event.EstimateID)

	created := starter.calls[1]
	assert.Equal(t, notificationworkflows.CustomerCreatedWorkflowName, created.workflow)
	assert.NotEqual(t, sent.options.ID, created.options.ID)
}

func TestTemporalPublisher_PropagatesStartErrors(t *testing.T) {
	pub := NewTemporalPublisher(&fakeStarter{err: errors.New("unavailable")}, nil)
	require.Error(t, pub.Publish(context.Background(), events.CustomerCreated{CustomerID: 1}))
}

func TestTemporalPublisher_AlreadyStartedIsDelivered(t *testing.T) {
	started := serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1")
	pub := NewTemporalPublisher(&fakeStarter{err: started}, nil)
	require.NoError(t, pub.Publish(context.Background(), events.EstimateSent{EstimateID: 7}))
}

type strayEvent struct{ events.CustomerCreated }

func (strayEvent) EventName() string { return "stray" }

func TestTemporalPublisher_RejectsUnknownEvents(t *testing.T) {
	pub := NewTemporalPublisher(&fakeStarter{}, nil)
	err := pub.Publish(context.Background(), strayEvent{})
	require.ErrorIs(t, err, events.ErrUnknownEvent)
}

func TestWorkflowIDsAreUnique(t *testing.T) {
	a := WorkflowID(events.CustomerCreated{})
	b := WorkflowID(events.CustomerCreated{})
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "customers.customer.created-"))
}
