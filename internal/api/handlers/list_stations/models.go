package list_stations

import (
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

// ToServiceRequest создает запрос сервиса из query параметров q, connector, available, lat, lng
func ToServiceRequest(query url.Values) (*models.ListStationsRequest, error) {
	req := &models.ListStationsRequest{
		Query:     query.Get("q"),
		Connector: query.Get("connector"),
	}

	if v := query.Get("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		req.OnlyAvailable = available
	}

	if v := query.Get("lat"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		req.Latitude = &lat
	}

	if v := query.Get("lng"); v != "" {
		lng, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		req.Longitude = &lng
	}

	return req, nil
}
