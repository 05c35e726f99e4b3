package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
	"shop-service/internal/security"
	"shop-service/internal/usecase"
)

const orderServiceName = "shop.order.v1.OrderService"

type TokenVerifier interface {
	Verify(raw string) (entities.Identity, error)
}

// OrderServiceServer is the read side of the order API. Messages are
// google.protobuf.Struct values shaped like the REST order JSON, see
// api/proto/shop/order/v1/order_service.proto.
type OrderServiceServer interface {
	GetOrderDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var orderServiceDesc = grpc.ServiceDesc{
	ServiceName: orderServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetOrderDetails",
			Handler: unaryHandler("GetOrderDetails", func(srv OrderServiceServer) func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
				return srv.GetOrderDetails
			}),
		},
		{
			MethodName: "ListOrders",
			Handler: unaryHandler("ListOrders", func(srv OrderServiceServer) func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
				return srv.ListOrders
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shop/order/v1/order_service.proto",
}

func unaryHandler(
	method string,
	pick func(OrderServiceServer) func(context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + orderServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		call := pick(srv.(OrderServiceServer))
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(ctx, req.(*structpb.Struct))
		})
	}
}

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
	verifier     TokenVerifier
	timeout      time.Duration
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase, verifier TokenVerifier, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orderUseCase: orderUseCase, verifier: verifier, timeout: timeout}
}

func (h *OrderHandler) GetOrderDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identity, err := h.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	view, err := h.orderUseCase.GetOrderDetails(ctx, identity, req.GetFields()["orderId"].GetStringValue())
	if err != nil {
		return nil, mapErrorToStatus(err)
	}

	return toStruct(map[string]any{"order": orderFields(*view)})
}

func (h *OrderHandler) ListOrders(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	identity, err := h.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	views, err := h.orderUseCase.GetUserOrders(ctx, identity)
	if err != nil {
		return nil, mapErrorToStatus(err)
	}

	orders := make([]any, len(views))
	for i, view := range views {
		orders[i] = orderFields(view)
	}
	return toStruct(map[string]any{"orders": orders})
}

// authenticate reads the bearer token from the "authorization" metadata
// entry, the gRPC counterpart of the HTTP Authorization header.
func (h *OrderHandler) authenticate(ctx context.Context) (entities.Identity, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 {
		return entities.Identity{}, status.Error(codes.Unauthenticated, "missing bearer token")
	}

	raw, ok := security.BearerToken(values[0])
	if !ok {
		return entities.Identity{}, status.Error(codes.Unauthenticated, "missing bearer token")
	}

	identity, err := h.verifier.Verify(raw)
	if err != nil {
		return entities.Identity{}, status.Error(codes.Unauthenticated, "invalid jwt")
	}
	return identity, nil
}

func mapErrorToStatus(err error) error {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, usecase.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, usecase.ErrNotFound), repositories.IsNotFound(err):
		return status.Error(codes.NotFound, "order not found")
	case errors.Is(err, usecase.ErrDuplicate), errors.Is(err, repositories.ErrOrderAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

// Money travels as decimal strings: Struct numbers are doubles.
func orderFields(view usecase.OrderView) map[string]any {
	order := view.Order

	lines := make([]any, len(order.Lines))
	for i, line := range order.Lines {
		var product any = line.ProductID
		if p, ok := view.Products[line.ProductID]; ok {
			product = productFields(p)
		}
		lines[i] = map[string]any{
			"product":  product,
			"quantity": line.Quantity,
			"price":    line.Price.String(),
		}
	}

	fields := map[string]any{
		"_id":      order.ID,
		"user":     order.UserID,
		"products": lines,
		"deliveryAddress": map[string]any{
			"street":  order.DeliveryAddress.Street,
			"city":    order.DeliveryAddress.City,
			"state":   order.DeliveryAddress.State,
			"zipCode": order.DeliveryAddress.ZipCode,
			"country": order.DeliveryAddress.Country,
		},
		"totalAmount":    order.TotalAmount.String(),
		"status":         string(order.Status),
		"progressStatus": order.ProgressStatus,
		"orderDate":      order.OrderDate.Format(time.RFC3339Nano),
		"updatedAt":      order.UpdatedAt.Format(time.RFC3339Nano),
	}
	if order.Status == entities.StatusCancelled {
		fields["cancelReason"] = string(order.CancelReason)
		fields["cancelDescription"] = order.CancelDescription
	}
	return fields
}

func productFields(p *entities.Product) map[string]any {
	return map[string]any{
		"_id":         p.ID,
		"seller":      p.SellerID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
		"category":    string(p.Category),
		"subcategory": string(p.Subcategory),
		"image":       p.ImageURL,
		"inStock":     p.InStock,
	}
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return s, nil
}
