// Package messages holds the user-facing texts of the application and maps
// domain errors onto them.
package messages

import (
	"errors"
	"fmt"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

const (
	CheckingAuth = "認証情報を確認中..."
	Loading      = "データを読み込んでいます..."

	SignInRequiredForCategory = "カテゴリの追加にはログインが必要です。"
	CategoryLimit             = "カテゴリは最大6個までしか作成できません。"
	EmptyCategoryName         = "カテゴリ名を入力してください。"

	ToolFieldsRequired   = "ツール名とURLは必須です。"
	AddToolFailed        = "ツールの追加に失敗しました。"
	DeleteToolFailed     = "ツールの削除に失敗しました。"
	DeleteCategoryFailed = "カテゴリの削除中にエラーが発生しました。"
	NoTools              = "このカテゴリにはツールがありません。"

	EmailAlreadyInUse = "このメールアドレスは既に使用されています。"
	WeakPassword      = "パスワードは6文字以上で設定してください。"
	InvalidEmail      = "有効なメールアドレスを入力してください。"
	SignUpFailed      = "登録に失敗しました。"
	Unexpected        = "予期せぬエラーが発生しました。"
	InvalidCredential = "メールアドレスまたはパスワードが間違っています。"
	SignOutFailed     = "ログアウトに失敗しました。"

	ExportDisabled = "エクスポートは現在利用できません。"
	ExportFailed   = "エクスポートに失敗しました。"
)

// CategoryExists reports a duplicate category name.
func CategoryExists(name string) string {
	return fmt.Sprintf("「%s」というカテゴリは既に存在します。", name)
}

// ConfirmDeleteTool asks before a tool is removed.
func ConfirmDeleteTool(tool string) string {
	return fmt.Sprintf("「%s」を削除しますか？", tool)
}

// ConfirmDeleteCategory asks before a category and its tools are removed.
func ConfirmDeleteCategory(name string) string {
	return fmt.Sprintf("カテゴリ「%s」を削除しますか？\nこの操作は元に戻せません。", name)
}

// Welcome greets the signed-in user in the header.
func Welcome(email string) string {
	return fmt.Sprintf("ようこそ、%sさん！", email)
}

// ExportDone confirms a stored export.
func ExportDone(key string) string {
	return fmt.Sprintf("エクスポートを保存しました: %s", key)
}

// SignUpError maps a sign-up failure to its message. Errors that did not
// come from the identity provider are reported as unexpected.
func SignUpError(err error) string {
	var authErr *model.AuthError
	if !errors.As(err, &authErr) {
		return Unexpected
	}
	switch authErr.Code {
	case model.AuthEmailAlreadyInUse:
		return EmailAlreadyInUse
	case model.AuthWeakPassword:
		return WeakPassword
	case model.AuthInvalidEmail:
		return InvalidEmail
	default:
		return SignUpFailed
	}
}

// SignInError maps every sign-in failure to the same message.
func SignInError(error) string {
	return InvalidCredential
}

// CategoryError maps a refused category change to its alert.
func CategoryError(err error, name string) string {
	switch {
	case errors.Is(err, model.ErrSignInRequired):
		return SignInRequiredForCategory
	case errors.Is(err, model.ErrCategoryLimit):
		return CategoryLimit
	case errors.Is(err, model.ErrCategoryExists):
		return CategoryExists(name)
	case errors.Is(err, model.ErrEmptyCategoryName):
		return EmptyCategoryName
	default:
		return Unexpected
	}
}

// ExportError maps an export failure to its alert.
func ExportError(err error) string {
	if errors.Is(err, model.ErrExportDisabled) {
		return ExportDisabled
	}
	return ExportFailed
}
