package dataset

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jusunglee/metro-go/internal/index"
	"github.com/jusunglee/metro-go/internal/models"
)

// Snapshot wire layout, readable by any protobuf decoder given:
//
//	message Snapshot { string city = 1; repeated Line lines = 2; repeated Station stations = 3; }
//	message Line     { string name = 1; string hex = 2; repeated string stations = 3; }
//	message Station  { string name = 1; double lat = 2; double lon = 3; string line = 4; }
const (
	snapshotCity     protowire.Number = 1
	snapshotLines    protowire.Number = 2
	snapshotStations protowire.Number = 3

	lineName     protowire.Number = 1
	lineHex      protowire.Number = 2
	lineStations protowire.Number = 3

	stationName protowire.Number = 1
	stationLat  protowire.Number = 2
	stationLon  protowire.Number = 3
	stationLine protowire.Number = 4
)

// EncodeSnapshot serializes the flattened mappings of idx
func EncodeSnapshot(idx *index.Index) []byte {
	lines, stations := idx.Stored()

	var b []byte
	b = appendString(b, snapshotCity, string(idx.City()))
	for _, line := range lines {
		b = protowire.AppendTag(b, snapshotLines, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeLine(line))
	}
	for _, station := range stations {
		b = protowire.AppendTag(b, snapshotStations, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeStation(station))
	}
	return b
}

// DecodeSnapshot rebuilds an index from EncodeSnapshot output.
// A non-empty city overrides the one recorded in the snapshot.
func DecodeSnapshot(b []byte, city models.City, opts ...index.Option) (*index.Index, error) {
	var (
		recorded string
		lines    []models.StoredLine
		stations []models.StoredStation
	)

	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}

		switch num {
		case snapshotCity:
			recorded = string(v)
		case snapshotLines:
			line, err := decodeLine(v)
			if err != nil {
				return 0, err
			}
			lines = append(lines, line)
		case snapshotStations:
			station, err := decodeStation(v)
			if err != nil {
				return 0, err
			}
			stations = append(stations, station)
		}
		return n, nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if city == "" {
		city = models.City(recorded)
	}
	return index.FromStored(models.NormalizeCity(city), lines, stations, opts...), nil
}

func encodeLine(line models.StoredLine) []byte {
	var b []byte
	b = appendString(b, lineName, line.Name)
	b = appendString(b, lineHex, line.Hex)
	for _, name := range line.Stations {
		// always written so empty names survive as references
		b = protowire.AppendTag(b, lineStations, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}
	return b
}

func decodeLine(b []byte) (models.StoredLine, error) {
	line := models.StoredLine{Stations: []string{}}
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		v, n := protowire.ConsumeString(b)
		switch num {
		case lineName:
			line.Name = v
		case lineHex:
			line.Hex = v
		case lineStations:
			line.Stations = append(line.Stations, v)
		}
		return n, nil
	})
	return line, err
}

func encodeStation(station models.StoredStation) []byte {
	var b []byte
	b = appendString(b, stationName, station.Name)
	b = appendDouble(b, stationLat, station.LatLon.Lat())
	b = appendDouble(b, stationLon, station.LatLon.Lon())
	b = appendString(b, stationLine, station.Line)
	return b
}

func decodeStation(b []byte) (models.StoredStation, error) {
	var station models.StoredStation
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case typ == protowire.Fixed64Type && (num == stationLat || num == stationLon):
			v, n := protowire.ConsumeFixed64(b)
			if num == stationLat {
				station.LatLon[0] = math.Float64frombits(v)
			} else {
				station.LatLon[1] = math.Float64frombits(v)
			}
			return n, nil
		case typ == protowire.BytesType && (num == stationName || num == stationLine):
			v, n := protowire.ConsumeString(b)
			if num == stationName {
				station.Name = v
			} else {
				station.Line = v
			}
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	return station, err
}

// consumeFields walks the fields of one message. fn consumes the value that
// follows each tag and reports how many bytes it used; negative counts are
// protowire error codes.
func consumeFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}
