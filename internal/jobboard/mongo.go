package jobboard

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// databaseName は求人掲示板が使用するMongoDBのデータベース名。
	databaseName = "jobList"
	// jobPostingsCollectionName は求人情報のコレクション名。
	jobPostingsCollectionName = "jobCategories"
	// appliedJobsCollectionName は応募済み求人レコードのコレクション名。
	appliedJobsCollectionName = "appliedJobs"
)

// mongoStore はStoreインタフェースのMongoDB実装。
// プロセス全体で共有される単一の *mongo.Client を使用する。
type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore は接続済みのMongoDBクライアントからStoreを生成する。
func NewMongoStore(client *mongo.Client) Store {
	return &mongoStore{db: client.Database(databaseName)}
}

// JobPostings は求人情報のコレクションを返す。
func (s *mongoStore) JobPostings() Collection {
	return &mongoCollection{c: s.db.Collection(jobPostingsCollectionName)}
}

// AppliedJobs は応募済み求人レコードのコレクションを返す。
func (s *mongoStore) AppliedJobs() Collection {
	return &mongoCollection{c: s.db.Collection(appliedJobsCollectionName)}
}

// mongoCollection はCollectionインタフェースのMongoDB実装。
type mongoCollection struct {
	c *mongo.Collection
}

// FindAll はコレクション内の全ドキュメントを返す。
func (mc *mongoCollection) FindAll(ctx context.Context) ([]Document, error) {
	cursor, err := mc.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: ドキュメント一覧の取得に失敗: %v", ErrStore, err)
	}

	docs := make([]Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: ドキュメント一覧の読み取りに失敗: %v", ErrStore, err)
	}
	return docs, nil
}

// FindOne は条件に完全一致する最初のドキュメントを返す。
func (mc *mongoCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	query, err := toQuery(filter)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := mc.c.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: ドキュメントの取得に失敗: %v", ErrStore, err)
	}
	return doc, nil
}

// FindMany は条件に完全一致する全ドキュメントを返す。
func (mc *mongoCollection) FindMany(ctx context.Context, filter Filter) ([]Document, error) {
	query, err := toQuery(filter)
	if err != nil {
		return nil, err
	}

	cursor, err := mc.c.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: ドキュメントの検索に失敗: %v", ErrStore, err)
	}

	docs := make([]Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: 検索結果の読み取りに失敗: %v", ErrStore, err)
	}
	return docs, nil
}

// InsertOne はドキュメントを挿入し、ストアが採番した識別子を返す。
func (mc *mongoCollection) InsertOne(ctx context.Context, doc Document) (InsertResult, error) {
	if len(doc) == 0 {
		return InsertResult{}, ErrValidation
	}

	res, err := mc.c.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return InsertResult{}, fmt.Errorf("%w: ドキュメントの挿入に失敗: %v", ErrStore, err)
	}

	return InsertResult{
		Acknowledged: true,
		InsertedID:   objectIDHex(res.InsertedID),
	}, nil
}

// UpsertByID は指定フィールドのみを$setで部分更新する。
// 識別子に一致するドキュメントが無い場合は新規作成する（upsert）。
func (mc *mongoCollection) UpsertByID(ctx context.Context, id string, fields Document) (UpsertResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return UpsertResult{}, ErrInvalidID
	}
	// _id は不変のため更新対象から外す
	delete(fields, "_id")
	if len(fields) == 0 {
		return UpsertResult{}, ErrValidation
	}

	res, err := mc.c.UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M(fields)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("%w: ドキュメントの更新に失敗: %v", ErrStore, err)
	}

	result := UpsertResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		result.UpsertedID = objectIDHex(res.UpsertedID)
	}
	return result, nil
}

// DeleteByID は識別子が一致するドキュメントを削除する。
func (mc *mongoCollection) DeleteByID(ctx context.Context, id string) (DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return DeleteResult{}, ErrInvalidID
	}

	res, err := mc.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%w: ドキュメントの削除に失敗: %v", ErrStore, err)
	}
	return DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// toQuery はゲートウェイのFilterをMongoDBのクエリに変換する。
// "_id" キーの文字列値はObjectIDとして解釈し、形式が不正な場合は
// ErrInvalidID を返す。
func toQuery(filter Filter) (bson.M, error) {
	query := make(bson.M, len(filter))
	for k, v := range filter {
		if k == "_id" {
			if s, ok := v.(string); ok {
				oid, err := primitive.ObjectIDFromHex(s)
				if err != nil {
					return nil, ErrInvalidID
				}
				query[k] = oid
				continue
			}
		}
		query[k] = v
	}
	return query, nil
}

// objectIDHex はストアが返した識別子を16進文字列に変換する。
func objectIDHex(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}
