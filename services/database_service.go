package services

import (
	"context"

	"phipay/entity"
)

type Database interface {
	WriteLogMessage(data Data) error

	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	SaveOrder(ctx context.Context, order *entity.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status string) error
	AddOrderNote(ctx context.Context, id string, note string) error
	SaveStatusResult(ctx context.Context, id string, result *entity.StatusResult) error
	SaveRefundResult(ctx context.Context, id string, result *entity.RefundResult) error
}

type Data interface {
	DataType() string
}
