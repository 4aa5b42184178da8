package db

import (
	"context"
	"log"

	"earlywarning/internal/env"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Ctx = context.Background()
var RDB *redis.Client
var Client *mongo.Client

var Events *mongo.Collection
var ChangeLogs *mongo.Collection
var Predefines *mongo.Collection
var Parties *mongo.Collection
var Counters *mongo.Collection
var Campaigns *mongo.Collection

func InitDB(deployment string) error {
	var err error

	Client, err = mongo.Connect(
		Ctx,
		options.Client().ApplyURI(env.MONGO_URI),
	)
	if err != nil {
		return err
	}

	err = Client.Ping(Ctx, nil)
	if err != nil {
		log.Fatal("COULD NOT CONNECT TO MONGODB")
		return err
	}

	database := "earlywarning"
	if deployment == "test" {
		database = "earlywarning_test"
	}

	// loading collections
	Events = GetCollection(database, "events", Client)
	ChangeLogs = GetCollection(database, "changelogs", Client)
	Predefines = GetCollection(database, "predefines", Client)
	Parties = GetCollection(database, "parties", Client)
	Counters = GetCollection(database, "counters", Client)
	Campaigns = GetCollection(database, "campaigns", Client)

	return ensureIndexes()
}

func GetCollection(database string, collectionName string, client *mongo.Client) *mongo.Collection {
	return client.Database(database).Collection(collectionName)
}

// ensureIndexes enforces the uniqueness of event numbers, the last line
// of defense if the counter increment is ever not atomic.
func ensureIndexes() error {
	_, err := Events.Indexes().CreateOne(Ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "number", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"number": bson.M{"$type": "string"},
			}),
	})

	return err
}

// NextSequence atomically increments and returns the durable counter
// stored under key. The upsert makes the first call for a fresh key
// return 1.
func NextSequence(ctx context.Context, key string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := Counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}

func InitCache() error {
	var err error

	addr := env.REDIS_URI
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       15,
	})

	err = RDB.Ping(Ctx).Err()
	if err != nil {
		log.Fatal("COULD NOT CONNECT TO REDIS")
		return err
	}

	return nil
}

func CacheSet(key string, value string) error {
	return RDB.Set(Ctx, key, value, 0).Err()
}

func CacheSetBytes(key string, value []byte) error {
	return RDB.Set(Ctx, key, value, 0).Err()
}

func CacheGet(key string) (string, error) {
	return RDB.Get(Ctx, key).Result()
}

func CacheGetBytes(key string) ([]byte, error) {
	return RDB.Get(Ctx, key).Bytes()
}

func CacheDel(key string) error {
	_, err := RDB.Del(Ctx, key).Result()

	return err
}
