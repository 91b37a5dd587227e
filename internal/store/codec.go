// internal/store/codec.go
package store

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/MikeG23/movies/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// NewRegistry returns the BSON registry movie documents are read with.
// The collection is schemaless, so integer and string fields accept
// whatever type older writers left in them instead of failing the read.
func NewRegistry() *bson.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeDecoder(reflect.TypeOf(0), bson.ValueDecoderFunc(decodeLenientInt))
	reg.RegisterTypeDecoder(reflect.TypeOf(""), bson.ValueDecoderFunc(decodeLenientString))
	return reg
}

// decodeLenientInt reads numbers (truncating fractions), numeric prefixes of
// strings ("1995è" is 1995) and booleans. Anything else decodes as 0.
func decodeLenientInt(_ bson.DecodeContext, vr bson.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Kind() != reflect.Int {
		return fmt.Errorf("lenient int decoder cannot decode into %s", val.Type())
	}

	var n int64
	switch vr.Type() {
	case bson.TypeInt32:
		i, err := vr.ReadInt32()
		if err != nil {
			return err
		}
		n = int64(i)
	case bson.TypeInt64:
		i, err := vr.ReadInt64()
		if err != nil {
			return err
		}
		n = i
	case bson.TypeDouble:
		f, err := vr.ReadDouble()
		if err != nil {
			return err
		}
		n = truncate(f)
	case bson.TypeDecimal128:
		d, err := vr.ReadDecimal128()
		if err != nil {
			return err
		}
		f, _ := strconv.ParseFloat(d.String(), 64)
		n = truncate(f)
	case bson.TypeString:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		n = leadingInt(s)
	case bson.TypeBoolean:
		b, err := vr.ReadBoolean()
		if err != nil {
			return err
		}
		if b {
			n = 1
		}
	default:
		if err := vr.Skip(); err != nil {
			return err
		}
	}

	val.SetInt(n)
	return nil
}

// decodeLenientString renders scalars in their text form and dates in the
// lastupdated layout. Anything else decodes as "".
func decodeLenientString(_ bson.DecodeContext, vr bson.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Kind() != reflect.String {
		return fmt.Errorf("lenient string decoder cannot decode into %s", val.Type())
	}

	var s string
	switch vr.Type() {
	case bson.TypeString:
		str, err := vr.ReadString()
		if err != nil {
			return err
		}
		s = str
	case bson.TypeInt32:
		i, err := vr.ReadInt32()
		if err != nil {
			return err
		}
		s = strconv.FormatInt(int64(i), 10)
	case bson.TypeInt64:
		i, err := vr.ReadInt64()
		if err != nil {
			return err
		}
		s = strconv.FormatInt(i, 10)
	case bson.TypeDouble:
		f, err := vr.ReadDouble()
		if err != nil {
			return err
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	case bson.TypeBoolean:
		b, err := vr.ReadBoolean()
		if err != nil {
			return err
		}
		s = strconv.FormatBool(b)
	case bson.TypeDateTime:
		ms, err := vr.ReadDateTime()
		if err != nil {
			return err
		}
		s = domain.Timestamp(time.UnixMilli(ms))
	default:
		if err := vr.Skip(); err != nil {
			return err
		}
	}

	val.SetString(s)
	return nil
}

func truncate(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

// leadingInt parses the optionally signed run of digits at the start of s.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
