package messages

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

func TestSignUpError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "email in use", err: model.NewAuthError(model.AuthEmailAlreadyInUse, nil), want: "このメールアドレスは既に使用されています。"},
		{name: "weak password", err: model.NewAuthError(model.AuthWeakPassword, nil), want: "パスワードは6文字以上で設定してください。"},
		{name: "invalid email", err: model.NewAuthError(model.AuthInvalidEmail, nil), want: "有効なメールアドレスを入力してください。"},
		{name: "other provider code", err: model.NewAuthError(model.AuthInternal, errors.New("db")), want: "登録に失敗しました。"},
		{name: "wrapped provider error", err: fmt.Errorf("outer: %w", model.NewAuthError(model.AuthWeakPassword, nil)), want: "パスワードは6文字以上で設定してください。"},
		{name: "not a provider error", err: errors.New("redis down"), want: "予期せぬエラーが発生しました。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SignUpError(tt.err))
		})
	}
}

func TestSignInError_IsMasked(t *testing.T) {
	t.Parallel()
	for _, err := range []error{
		model.NewAuthError(model.AuthInvalidCredential, nil),
		model.NewAuthError(model.AuthInternal, nil),
		errors.New("boom"),
	} {
		assert.Equal(t, "メールアドレスまたはパスワードが間違っています。", SignInError(err))
	}
}

func TestFormatted(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "「動画」というカテゴリは既に存在します。", CategoryExists("動画"))
	assert.Equal(t, "「Sora」を削除しますか？", ConfirmDeleteTool("Sora"))
	assert.Equal(t, "カテゴリ「動画」を削除しますか？\nこの操作は元に戻せません。", ConfirmDeleteCategory("動画"))
	assert.Equal(t, "ようこそ、a@example.comさん！", Welcome("a@example.com"))
}

func TestCategoryError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "signed out", err: model.ErrSignInRequired, want: "カテゴリの追加にはログインが必要です。"},
		{name: "limit", err: model.ErrCategoryLimit, want: "カテゴリは最大6個までしか作成できません。"},
		{name: "duplicate", err: fmt.Errorf("failed to add: %w", model.ErrCategoryExists), want: "「画像作成」というカテゴリは既に存在します。"},
		{name: "empty", err: model.ErrEmptyCategoryName, want: "カテゴリ名を入力してください。"},
		{name: "other", err: errors.New("boom"), want: "予期せぬエラーが発生しました。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CategoryError(tt.err, "画像作成"))
		})
	}
}

func TestExportError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ExportDisabled, ExportError(model.ErrExportDisabled))
	assert.Equal(t, ExportFailed, ExportError(errors.New("bucket gone")))
}
