package notify_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yoyozbi/calendarbot/src-server/notify"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	sendCalls int
	editCalls int
	sendErr   error
	editErr   error

	nextID      int
	lastChannel string
	lastEdited  string
	lastEmbed   *discordgo.MessageEmbed
	lastCtx     context.Context
}

func (f *fakeSink) Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error) {
	f.sendCalls++
	f.lastChannel = channelID
	f.lastEmbed = embed
	f.lastCtx = ctx
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextID++
	return fmt.Sprintf("msg-%d", f.nextID), nil
}

func (f *fakeSink) Edit(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	f.editCalls++
	f.lastChannel = channelID
	f.lastEdited = messageID
	f.lastEmbed = embed
	f.lastCtx = ctx
	return f.editErr
}

func TestDispatchCreatesWithoutPrior(t *testing.T) {
	sink := &fakeSink{}

	id, err := notify.Dispatch(context.Background(), sink, "chan-1", &discordgo.MessageEmbed{}, "")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, 1, sink.sendCalls)
	assert.Equal(t, 0, sink.editCalls)
}

func TestDispatchEditsPrior(t *testing.T) {
	sink := &fakeSink{}

	id, err := notify.Dispatch(context.Background(), sink, "chan-1", &discordgo.MessageEmbed{}, "msg-7")
	require.NoError(t, err)
	assert.Equal(t, "msg-7", id)
	assert.Equal(t, "msg-7", sink.lastEdited)
	assert.Equal(t, 0, sink.sendCalls)
}

func TestDispatchFallsBackToCreate(t *testing.T) {
	sink := &fakeSink{editErr: errors.New("unknown message")}

	id, err := notify.Dispatch(context.Background(), sink, "chan-1", &discordgo.MessageEmbed{}, "msg-7")
	require.NoError(t, err)
	assert.Equal(t, 1, sink.editCalls)
	assert.Equal(t, 1, sink.sendCalls)
	assert.NotEqual(t, "msg-7", id)
}

func TestDispatchTotalFailure(t *testing.T) {
	sink := &fakeSink{
		editErr: errors.New("unknown message"),
		sendErr: errors.New("missing access"),
	}

	_, err := notify.Dispatch(context.Background(), sink, "chan-1", &discordgo.MessageEmbed{}, "msg-7")
	require.Error(t, err)
}

func TestDispatchForwardsContext(t *testing.T) {
	sink := &fakeSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := notify.Dispatch(ctx, sink, "chan-1", &discordgo.MessageEmbed{}, "msg-7")
	require.NoError(t, err)
	assert.Same(t, ctx, sink.lastCtx, "the sink must see the caller's deadline")
}
