package jobboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nao1215/jobbe/pkg/middleware"
)

// Server は求人掲示板サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store は文書ストアへのゲートウェイ。
	store Store
	// jwtSecret はJWT署名用の秘密鍵。
	jwtSecret string
}

// NewServer は新しい求人掲示板サーバーを生成する。
// MongoDBへの接続と疎通確認を行い、ルーティングを設定する。
func NewServer(port string) (*Server, error) {
	jwtSecret := getEnvOr("JWT_SECRET", "dev-secret-key")
	mongoURI := getEnvOr("MONGODB_URI", "mongodb://localhost:27017")
	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:5173")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("MongoDBへの接続に失敗: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDBへの疎通確認に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router:    router,
		port:      port,
		store:     NewMongoStore(client),
		jwtSecret: jwtSecret,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
//
// 認証をルート単位で構成している点に注意。保護されているのは一覧取得の
// 2ルートのみで、求人の作成・更新・削除と応募レコードの作成は認証なしで
// 到達できる。旧APIとの互換のため、この不揃いな認証構成と大文字小文字の
// 混在したパスをそのまま維持している。
func (s *Server) setupRoutes() {
	// 認証関連API
	s.router.POST("/jwt", s.handleIssueToken())
	s.router.POST("/logout", s.handleLogout())

	// 求人関連API
	s.router.POST("/jobCategories", s.handleCreateJob())
	s.router.GET("/jobcategories", middleware.JWTAuth(s.jwtSecret), s.handleListJobs())
	s.router.GET("/job/:id", s.handleGetJob())
	s.router.GET("/updateJob/:id", s.handleGetJob())
	s.router.PUT("/jobCategories/:id", s.handleUpdateJob())
	s.router.DELETE("/jobCategories/:id", s.handleDeleteJob())

	// 応募済み求人関連API
	s.router.GET("/appliedJobs", middleware.JWTAuth(s.jwtSecret), s.handleListAppliedJobs())
	s.router.POST("/appliedJobs", s.handleCreateAppliedJob())

	// 生存確認
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Jobbe server is running")
	})
}

// issueTokenRequest はトークン発行リクエストのJSON構造。
// emailクレーム以外のフィールドはトークンに含めない。
type issueTokenRequest struct {
	// Email はトークンの所有者となるユーザーのメールアドレス。
	Email string `json:"email" binding:"required"`
}

// jobPostingFields は求人ドキュメントとして更新を許可するフィールド名。
var jobPostingFields = []string{
	"user_name",
	"user_email",
	"company_logo",
	"job_title",
	"job_category",
	"salary_range",
	"job_description",
	"posting_date",
	"application_deadline",
	"applicants_number",
	"job_banner",
}

// filterJobPostingFields はペイロードから求人フィールドのみを抽出する。
// 列挙されたフィールドだけが更新対象になり、それ以外のキーは無視される。
func filterJobPostingFields(payload Document) Document {
	fields := make(Document, len(jobPostingFields))
	for _, name := range jobPostingFields {
		if v, ok := payload[name]; ok {
			fields[name] = v
		}
	}
	return fields
}

// handleIssueToken は識別トークンを発行するハンドラを返す。
// 発行したトークンはHttpOnly/Secure/SameSite=NoneのCookieとして設定する。
func (s *Server) handleIssueToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req issueTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			log.Printf("トークン発行エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.SetSameSite(http.SameSiteNoneMode)
		c.SetCookie(middleware.TokenCookieName, token, int(middleware.TokenLifetime.Seconds()), "/", "", true, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// handleLogout はトークンCookieを破棄するハンドラを返す。
// トークンはサーバー側に保持されないため、Cookieの破棄のみを行い、
// Cookieの有無にかかわらず常に成功を返す。
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteNoneMode)
		c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", true, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// handleCreateJob は求人情報の新規作成を処理するハンドラを返す。
func (s *Server) handleCreateJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		res, err := s.store.JobPostings().InsertOne(c.Request.Context(), doc)
		if errors.Is(err, ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "求人情報の内容が不正です"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "求人情報の作成に失敗しました"})
			log.Printf("求人作成エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// handleListJobs は求人情報の一覧取得を処理するハンドラを返す。
// 認証は必要だが、所有者によるフィルタは行わず全件を返す（旧API互換）。
func (s *Server) handleListJobs() gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := s.store.JobPostings().FindAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "求人一覧の取得に失敗しました"})
			log.Printf("求人一覧取得エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.JSON(http.StatusOK, docs)
	}
}

// handleGetJob は求人情報の単体取得を処理するハンドラを返す。
// 一致するドキュメントが無い場合はエラーではなくJSONのnullを返す。
func (s *Server) handleGetJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		doc, err := s.store.JobPostings().FindOne(c.Request.Context(), Filter{"_id": id})
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		if errors.Is(err, ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDの形式が不正です"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "求人情報の取得に失敗しました"})
			log.Printf("求人取得エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.JSON(http.StatusOK, doc)
	}
}

// handleUpdateJob は求人情報のupsert更新を処理するハンドラを返す。
// ペイロード中の既知の求人フィールドのみを部分更新し、IDが存在しない
// 場合は新規ドキュメントを作成する。
func (s *Server) handleUpdateJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var payload Document
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		fields := filterJobPostingFields(payload)
		res, err := s.store.JobPostings().UpsertByID(c.Request.Context(), id, fields)
		if errors.Is(err, ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDの形式が不正です"})
			return
		}
		if errors.Is(err, ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "更新対象の求人フィールドがありません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "求人情報の更新に失敗しました"})
			log.Printf("求人更新エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// handleDeleteJob は求人情報の削除を処理するハンドラを返す。
func (s *Server) handleDeleteJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		res, err := s.store.JobPostings().DeleteByID(c.Request.Context(), id)
		if errors.Is(err, ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDの形式が不正です"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "求人情報の削除に失敗しました"})
			log.Printf("求人削除エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// handleListAppliedJobs は認証済みユーザーの応募済み求人一覧を返すハンドラを返す。
// フィルタ条件は必ずトークンのemailクレームから組み立てる。クライアントが
// クエリパラメータ等で指定したメールアドレスは使用しない。
func (s *Server) handleListAppliedJobs() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := middleware.GetEmail(c)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスが取得できません"})
			return
		}

		docs, err := s.store.AppliedJobs().FindMany(c.Request.Context(), Filter{"user_email": email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "応募済み求人の取得に失敗しました"})
			log.Printf("応募済み求人取得エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.JSON(http.StatusOK, docs)
	}
}

// handleCreateAppliedJob は応募レコードの作成を処理するハンドラを返す。
// 作成後のレコードは不変であり、更新・削除のルートは存在しない。
func (s *Server) handleCreateAppliedJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		res, err := s.store.AppliedJobs().InsertOne(c.Request.Context(), doc)
		if errors.Is(err, ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "応募レコードの内容が不正です"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "応募レコードの作成に失敗しました"})
			log.Printf("応募レコード作成エラー: request_id=%s, %v", middleware.GetRequestID(c), err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
