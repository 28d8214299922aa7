package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jamespfennell/gtfs"

	"github.com/jusunglee/metro-go/internal/models"
)

// ParseGTFS converts a GTFS static zip into records
func ParseGTFS(b []byte) ([]models.Metro, error) {
	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	return FromStatic(staticData), nil
}

// FromStatic maps each route to a line, in routes.txt order.
// A route's stations are the stops of its longest trip in stop_sequence order,
// using the parent station where a stop has one. Routes without trips become
// lines with no stations.
func FromStatic(staticData *gtfs.Static) []models.Metro {
	longest := make(map[string]*gtfs.ScheduledTrip, len(staticData.Routes))
	for i := range staticData.Trips {
		trip := &staticData.Trips[i]
		if trip.Route == nil {
			continue
		}
		if cur, ok := longest[trip.Route.Id]; !ok || len(trip.StopTimes) > len(cur.StopTimes) {
			longest[trip.Route.Id] = trip
		}
	}

	records := make([]models.Metro, 0, len(staticData.Routes))
	for _, route := range staticData.Routes {
		records = append(records, models.Metro{
			Line: models.RawLine{
				ID:   route.Id,
				Name: routeName(route),
				Hex:  routeHex(route.Color),
			},
			Stations: tripStations(longest[route.Id]),
		})
	}
	return records
}

func tripStations(trip *gtfs.ScheduledTrip) []models.RawStation {
	if trip == nil {
		return []models.RawStation{}
	}

	stopTimes := make([]gtfs.ScheduledStopTime, len(trip.StopTimes))
	copy(stopTimes, trip.StopTimes)
	sort.SliceStable(stopTimes, func(i, j int) bool {
		return stopTimes[i].StopSequence < stopTimes[j].StopSequence
	})

	stations := make([]models.RawStation, 0, len(stopTimes))
	for _, st := range stopTimes {
		stop := st.Stop
		if stop == nil {
			continue
		}
		if stop.Parent != nil {
			stop = stop.Parent
		}
		// platforms of one station can appear back to back
		if n := len(stations); n > 0 && stations[n-1].Name == stop.Name {
			continue
		}

		var latlon models.LatLon
		if stop.Latitude != nil && stop.Longitude != nil {
			latlon = models.LatLon{*stop.Latitude, *stop.Longitude}
		}
		stations = append(stations, models.RawStation{Name: stop.Name, LatLon: latlon})
	}
	return stations
}

func routeName(route gtfs.Route) string {
	switch {
	case route.ShortName != "":
		return route.ShortName
	case route.LongName != "":
		return route.LongName
	default:
		return route.Id
	}
}

func routeHex(color string) string {
	if color == "" || strings.HasPrefix(color, "#") {
		return strings.ToUpper(color)
	}
	return "#" + strings.ToUpper(color)
}
