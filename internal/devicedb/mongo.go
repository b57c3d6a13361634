package devicedb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"rangedeck/internal/domain"
)

// mongoConnector implements Connector for MongoDB device inventories.
type mongoConnector struct {
	client     *mongo.Client
	dbName     string
	collection string
}

func newMongoConnector(src *domain.DeviceSource, password string) (*mongoConnector, error) {
	var uri string

	// If host is already a full connection string (Atlas mongodb+srv:// or
	// standard mongodb://), use it directly. Otherwise build from host:port.
	if strings.HasPrefix(src.Host, "mongodb+srv://") || strings.HasPrefix(src.Host, "mongodb://") {
		uri = src.Host
		// Replace <password> placeholder commonly found in Atlas connection strings
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
	} else {
		port := src.Port
		if port == 0 {
			port = 27017
		}
		if src.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", src.Username, password, src.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", src.Host, port)
		}
	}

	dbName := src.Database
	if dbName == "" {
		dbName = "inventory"
	}
	collection := src.Table
	if collection == "" {
		collection = "devices"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &mongoConnector{client: client, dbName: dbName, collection: collection}, nil
}

func (c *mongoConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.client.Ping(ctx, nil)
}

// deviceDoc is the expected shape of one inventory document. Sites that use
// snake_case fields are handled by the fallback keys.
type deviceDoc struct {
	DeviceID   string    `bson:"deviceId,omitempty"`
	DeviceIDSn string    `bson:"device_id,omitempty"`
	Name       string    `bson:"name,omitempty"`
	Status     string    `bson:"status,omitempty"`
	LastSeen   time.Time `bson:"lastSeen,omitempty"`
	LastSeenSn time.Time `bson:"last_seen,omitempty"`
}

func (c *mongoConnector) FetchDevices(ctx context.Context) ([]domain.TargetDevice, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	coll := c.client.Database(c.dbName).Collection(c.collection)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find devices: %w", err)
	}
	defer cursor.Close(ctx)

	var devices []domain.TargetDevice
	for cursor.Next(ctx) {
		var doc deviceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode device: %w", err)
		}
		id := doc.DeviceID
		if id == "" {
			id = doc.DeviceIDSn
		}
		lastSeen := doc.LastSeen
		if lastSeen.IsZero() {
			lastSeen = doc.LastSeenSn
		}
		devices = append(devices, domain.TargetDevice{
			DeviceID: id,
			Name:     doc.Name,
			Status:   normalizeStatus(doc.Status),
			LastSeen: lastSeen,
		})
	}
	return devices, cursor.Err()
}

func (c *mongoConnector) Close() error {
	return c.client.Disconnect(context.Background())
}
