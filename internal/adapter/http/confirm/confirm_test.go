package confirm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"daycheck/internal/adapter/http/confirm"
)

func TestRequestConfirmer(t *testing.T) {
	confirmer := confirm.NewRequestConfirmer()
	ctx := context.Background()

	assert.True(t, confirmer.Confirm(confirm.WithAnswer(ctx, true), "delete_task"))
	assert.False(t, confirmer.Confirm(confirm.WithAnswer(ctx, false), "delete_task"))
}

func TestRequestConfirmer_AbsentAnswerDeclines(t *testing.T) {
	confirmer := confirm.NewRequestConfirmer()

	assert.False(t, confirmer.Confirm(context.Background(), "delete_task"))
}

func TestStaticConfirmer(t *testing.T) {
	ctx := context.Background()

	assert.True(t, confirm.StaticConfirmer{Answer: true}.Confirm(ctx, "reset_today_completions"))
	assert.False(t, confirm.StaticConfirmer{Answer: false}.Confirm(ctx, "reset_today_completions"))
}
