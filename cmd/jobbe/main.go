// 求人掲示板バックエンドのエントリポイント。
// CookieベースのJWT認証と、求人・応募レコードのCRUD APIを提供する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/jobbe/internal/jobboard"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	server, err := jobboard.NewServer(port)
	if err != nil {
		log.Fatalf("求人掲示板サーバーの初期化に失敗: %v", err)
	}

	log.Printf("求人掲示板サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("求人掲示板サービスの起動に失敗: %v", err)
	}
}
