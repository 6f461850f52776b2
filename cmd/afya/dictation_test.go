package main

import (
	"afya-chat/errors"
	"afya-chat/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDictation_Deliver(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockListener(ctrl)
	d := newDictation(true)

	// Nothing listening, the line is ordinary input
	req.False(d.Deliver("hello"))

	listener.EXPECT().OnResult("habari").Times(1)
	req.NoError(d.Begin("sw-KE", listener))
	tag, active := d.Active()
	req.True(active)
	req.Equal("sw-KE", tag)
	req.ErrorIs(d.Begin("sw-KE", listener), errors.ErrAlreadyListening)

	req.True(d.Deliver("habari"))
	_, active = d.Active()
	req.False(active)
	req.False(d.Deliver("again"))
}

func TestDictation_BlankLineEndsWithoutSpeech(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockListener(ctrl)
	d := newDictation(true)

	listener.EXPECT().OnEnd().Times(1)
	req.NoError(d.Begin("en-US", listener))
	req.True(d.Deliver("   "))
}

func TestDictation_Cancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	listener := mocks.NewMockListener(ctrl)
	d := newDictation(false)
	req.False(d.IsSupported())

	// Cancel without capture is a no-op
	d.Cancel()

	listener.EXPECT().OnEnd().Times(1)
	req.NoError(d.Begin("en-US", listener))
	d.Cancel()
	d.Cancel()
}
