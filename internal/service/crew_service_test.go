package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCrewService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCrewService(f.crew, f.store, "crew-headshots", zap.NewNop())

	_, err := svc.Create(ctx, CrewInput{Name: "Lee"}, nil)
	assert.ErrorIs(t, err, ErrCrewFieldsRequired)

	member, err := svc.Create(ctx, CrewInput{Name: "Lee", Role: "Maid of honour", Quote: " Love wins "}, &Upload{
		Filename: "lee.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpg"),
	})
	require.NoError(t, err)
	require.NotNil(t, member.Quote)
	assert.Equal(t, "Love wins", *member.Quote)
	require.NotNil(t, member.HeadshotURL)
	assert.Contains(t, *member.HeadshotURL, "/public/crew-headshots/")

	plain, err := svc.Create(ctx, CrewInput{Name: "Sam", Role: "Best man"}, nil)
	require.NoError(t, err)
	assert.Nil(t, plain.HeadshotURL)
	assert.Nil(t, plain.Quote)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Lee", list[0].Name)

	require.NoError(t, svc.Delete(ctx, member.ID))
	assert.ErrorIs(t, svc.Delete(ctx, member.ID), ErrCrewMemberNotFound)
}
