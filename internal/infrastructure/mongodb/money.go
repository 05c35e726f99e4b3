package mongodb

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is a decimal amount stored as BSON Decimal128. Documents written
// before prices were decimal hold doubles; those still decode.
type Money decimal.Decimal

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d := decimal.Decimal(m)
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return 0, nil, fmt.Errorf("amount %s does not fit Decimal128: %w", d, err)
	}
	return bson.MarshalValue(v)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return fmt.Errorf("decode Decimal128 amount: %w", err)
		}
		*m = Money(d)
	case bsontype.Double:
		*m = Money(decimal.NewFromFloat(raw.Double()))
	case bsontype.Int32:
		*m = Money(decimal.NewFromInt32(raw.Int32()))
	case bsontype.Int64:
		*m = Money(decimal.NewFromInt(raw.Int64()))
	case bsontype.Null:
		*m = Money(decimal.Zero)
	default:
		return fmt.Errorf("cannot decode %s into an amount", t)
	}
	return nil
}
