package internal

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"phipay/config"
	"phipay/entity"
	"phipay/services"
)

const (
	collectionLog    = "payment_log"
	collectionOrders = "orders"

	// Nested payment record paths; the leaf keys are the stable strings
	// the previous storefront implementation used.
	fieldStatusResult = "payment.phicommerce-payment-transaction-status-api-response-array"
	fieldRefundResult = "payment.phicommerce-payment-refund-status-api-response-array"
)

type MongoDB struct {
	ctx              context.Context
	clientOptions    *options.ClientOptions
	database         string
	logRecordsNumber int64
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, fmt.Errorf("mongo is not enabled in configuration")
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:              context.Background(),
		clientOptions:    clientOptions,
		database:         conf.Mongo.Database,
		logRecordsNumber: conf.LogRecords,
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	err := connection.Disconnect(m.ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

// WriteLogMessage appends a record to the payment log collection.
// Records are never updated or deleted.
func (m *MongoDB) WriteLogMessage(data services.Data) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionLog)
	_, err = collection.InsertOne(m.ctx, data)
	return err
}

func (m *MongoDB) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "order_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionOrders)
	var order entity.Order
	if err = collection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoDB) SaveOrder(ctx context.Context, order *entity.Order) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "order_id", Value: order.Id}}
	set := bson.M{"$set": order}
	collection := connection.Database(m.database).Collection(collectionOrders)
	_, err = collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	filter := bson.D{{Key: "order_id", Value: id}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
		}},
	}
	if _, err = collection.UpdateOne(ctx, filter, update); err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) AddOrderNote(ctx context.Context, id string, note string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	filter := bson.D{{Key: "order_id", Value: id}}
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{
			{Key: "notes", Value: note},
		}},
	}
	if _, err = collection.UpdateOne(ctx, filter, update); err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) SaveStatusResult(ctx context.Context, id string, result *entity.StatusResult) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	filter := bson.D{{Key: "order_id", Value: id}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: fieldStatusResult, Value: result},
		}},
	}
	if _, err = collection.UpdateOne(ctx, filter, update); err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) SaveRefundResult(ctx context.Context, id string, result *entity.RefundResult) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	filter := bson.D{{Key: "order_id", Value: id}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: fieldRefundResult, Value: result},
		}},
	}
	if _, err = collection.UpdateOne(ctx, filter, update); err != nil {
		return err
	}
	return nil
}
