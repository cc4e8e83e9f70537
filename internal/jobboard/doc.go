// Package jobboard は求人掲示板バックエンドのHTTPサーバーを提供する。
//
// CookieベースのJWT認証、求人情報と応募済み求人レコードのCRUD API、
// およびMongoDBを背後に持つ文書ストアゲートウェイを含む。
// ハンドラはStoreインタフェース経由でのみ永続化層に触れるため、
// テストではインメモリ実装に差し替えられる。
package jobboard
