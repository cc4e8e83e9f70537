package jobboard

import (
	"context"
	"errors"
)

// Document は文書ストアに格納されるスキーマレスなレコード。
// フィールド構成はストア側で強制されず、ルート層がそのまま受け渡す。
type Document = map[string]any

// Filter は完全一致検索の条件。キー "_id" の文字列値は
// ストア実装によって識別子として解釈される。
type Filter = map[string]any

// InsertResult はドキュメント挿入の結果。
type InsertResult struct {
	// Acknowledged はストアが書き込みを受理したかどうか。
	Acknowledged bool `json:"acknowledged"`
	// InsertedID はストアが採番したドキュメントの識別子。
	InsertedID string `json:"insertedId"`
}

// UpsertResult は識別子指定のupsert（存在すれば部分更新、無ければ新規作成）の結果。
type UpsertResult struct {
	// MatchedCount は識別子に一致した既存ドキュメント数（0または1）。
	MatchedCount int64 `json:"matchedCount"`
	// ModifiedCount は実際に変更された既存ドキュメント数。
	ModifiedCount int64 `json:"modifiedCount"`
	// UpsertedCount は新規作成されたドキュメント数（0または1）。
	UpsertedCount int64 `json:"upsertedCount"`
	// UpsertedID は新規作成されたドキュメントの識別子。作成時のみ設定される。
	UpsertedID string `json:"upsertedId,omitempty"`
}

// DeleteResult は識別子指定の削除の結果。
type DeleteResult struct {
	// DeletedCount は削除されたドキュメント数（0または1）。
	DeletedCount int64 `json:"deletedCount"`
}

var (
	// ErrNotFound は検索条件に一致するドキュメントが存在しないことを示す。
	// I/O障害とは区別され、呼び出し側は欠落として扱う。
	ErrNotFound = errors.New("ドキュメントが見つかりません")
	// ErrInvalidID は識別子の形式が不正であることを示す。
	// 不正な識別子は何にも一致しないのではなく、このエラーで失敗する。
	ErrInvalidID = errors.New("識別子の形式が不正です")
	// ErrValidation は挿入・更新対象のドキュメントが構造的に不正（空など）であることを示す。
	ErrValidation = errors.New("ドキュメントの内容が不正です")
	// ErrStore は背後の文書ストアとのI/O失敗を示す。
	ErrStore = errors.New("文書ストアの操作に失敗しました")
)

// Collection は1つの論理コレクションに対する文書ストアゲートウェイの契約。
// 全ての操作はストアへのI/Oを伴うため context.Context を受け取り、
// I/O失敗時は ErrStore を包んだエラーを返す。
type Collection interface {
	// FindAll はコレクション内の全ドキュメントを返す。
	FindAll(ctx context.Context) ([]Document, error)
	// FindOne は条件に完全一致する最初のドキュメントを返す。
	// 一致するドキュメントが無い場合は ErrNotFound を返す。
	FindOne(ctx context.Context, filter Filter) (Document, error)
	// FindMany は条件に完全一致する全ドキュメントを返す。
	FindMany(ctx context.Context, filter Filter) ([]Document, error)
	// InsertOne はドキュメントを挿入し、採番された識別子を返す。
	InsertOne(ctx context.Context, doc Document) (InsertResult, error)
	// UpsertByID は指定フィールドのみを部分更新する。列挙されなかった
	// フィールドは変更されない。識別子が存在しない場合は新規作成する。
	UpsertByID(ctx context.Context, id string, fields Document) (UpsertResult, error)
	// DeleteByID は識別子が一致するドキュメントを削除する。
	DeleteByID(ctx context.Context, id string) (DeleteResult, error)
}

// Store は求人掲示板が使用する2つの論理コレクションへのゲートウェイ。
// ルートハンドラはこのインタフェース経由でのみ永続化層に触れる。
type Store interface {
	// JobPostings は求人情報のコレクションを返す。
	JobPostings() Collection
	// AppliedJobs は応募済み求人レコードのコレクションを返す。
	AppliedJobs() Collection
}
