// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// CookieベースのJWT認証トークンの検証、リクエストID付与、パニックリカバリ、
// 資格情報付きCORS設定など、ハンドラの前段で動作する処理を含む。
// 各ミドルウェアは失敗時に自らレスポンスを生成してパイプラインを打ち切る。
package middleware
