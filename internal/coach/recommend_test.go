package coach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourclass/readlog/internal/llm"
)

const threeBooks = `{"books":[
	{"title":"The Westing Game","author":"Ellen Raskin","genre":"Mystery","reason":"You loved the puzzle in Holes.","stretch":false},
	{"title":"holes ","author":"Louis Sachar","genre":"Mystery","reason":"Already a favourite.","stretch":false},
	{"title":"The Wild Robot","author":"Peter Brown","genre":"Sci fi","reason":"A kind hero like in Wonder.","stretch":true},
	{"title":"Hatchet","author":"Gary Paulsen","genre":"Realistic fiction","reason":"Survival and grit.","stretch":true}
]}`

func TestRecommendBooks(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(threeBooks))
	c := New(mock, WithLogger(quietLogger()))

	recs, err := c.RecommendBooks(context.Background(), sampleLogs(), 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "The Westing Game", recs[0].Title)
	assert.Equal(t, "The Wild Robot", recs[1].Title, "already logged titles are skipped")
	assert.True(t, recs[1].Stretch)

	req, _ := mock.LastCall()
	require.NotNil(t, req.Schema)
	assert.Equal(t, "book-recommendations", req.Schema.Name)
	assert.Contains(t, req.Messages[0].Content, "Recommend 2 books")
}

func TestRecommendBooksDefaultsCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(threeBooks))
	c := New(mock, WithLogger(quietLogger()))

	recs, err := c.RecommendBooks(context.Background(), sampleLogs(), 0)
	require.NoError(t, err)
	assert.Len(t, recs, DefaultRecommendations)
}

func TestRecommendBooksRejectsOffSchemaAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"books":[{"title":"Dune","author":"Frank Herbert","genre":"Space opera","reason":"x","stretch":false}]}`))
	c := New(mock, WithLogger(quietLogger()))

	_, err := c.RecommendBooks(context.Background(), sampleLogs(), 1)
	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestRecommendBooksErrors(t *testing.T) {
	c := New(llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")}), WithLogger(quietLogger()))
	_, err := c.RecommendBooks(context.Background(), sampleLogs(), 1)
	assert.Error(t, err)

	_, err = c.RecommendBooks(context.Background(), nil, 1)
	assert.ErrorIs(t, err, ErrNoLogs)
}

func TestCoverImage(t *testing.T) {
	images := &llm.MockImages{Data: []byte{0xff, 0xd8, 0xff}}
	c := New(nil, WithImages(images), WithLogger(quietLogger()))
	require.True(t, c.CanDraw())

	img, err := c.CoverImage(context.Background(), " Holes ", "Louis Sachar")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, img.Data)
	require.Len(t, images.Prompts, 1)
	assert.Contains(t, images.Prompts[0], `"Holes" by Louis Sachar`)
	assert.Contains(t, images.Prompts[0], "must not contain any text")

	_, err = c.CoverImage(context.Background(), "  ", "x")
	assert.Error(t, err)
}

func TestCoverImageUnavailable(t *testing.T) {
	c := New(llm.NewMockProvider(), WithLogger(quietLogger()))
	assert.False(t, c.CanDraw())
	_, err := c.CoverImage(context.Background(), "Holes", "Louis Sachar")
	assert.ErrorIs(t, err, llm.ErrNoImageProvider)

	failing := New(nil, WithImages(&llm.MockImages{Err: errors.New("quota")}), WithLogger(quietLogger()))
	_, err = failing.CoverImage(context.Background(), "Holes", "Louis Sachar")
	assert.ErrorContains(t, err, "quota")
}
