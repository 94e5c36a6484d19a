package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/pkg/types"
)

var (
	// ErrReadFile ошибка чтения файла со станциями
	ErrReadFile = errors.New("seed: failed to read stations file")

	// ErrParse ошибка разбора yaml
	ErrParse = errors.New("seed: failed to parse stations file")
)

// File корневой элемент yaml
type File struct {
	Stations []Station `yaml:"stations"`
}

// Station станция в yaml. Если chargers пуст, зарядки генерируются из totalChargers
type Station struct {
	ID             int64     `yaml:"id"`
	Name           string    `yaml:"name"`
	Location       string    `yaml:"location"`
	Latitude       float64   `yaml:"latitude"`
	Longitude      float64   `yaml:"longitude"`
	ConnectorTypes []string  `yaml:"connectorTypes"`
	TariffPerUnit  float64   `yaml:"tariffPerUnit"`
	OpenTime       string    `yaml:"openTime"`
	CloseTime      string    `yaml:"closeTime"`
	Timezone       string    `yaml:"timezone"`
	Amenities      []string  `yaml:"amenities"`
	TotalChargers  int       `yaml:"totalChargers"`
	Chargers       []Charger `yaml:"chargers"`
}

// Charger явно заданная зарядка
type Charger struct {
	ID            int     `yaml:"id"`
	ConnectorType string  `yaml:"connectorType"`
	PowerKW       float64 `yaml:"powerKw"`
}

// LoadFile читает станции из yaml файла
func LoadFile(path string) ([]domain.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFile, path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load разбирает yaml. Проверку инвариантов станций выполняет реестр
func Load(r io.Reader) ([]domain.Station, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Station{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	stations := make([]domain.Station, 0, len(file.Stations))
	for _, s := range file.Stations {
		st, err := s.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: station %d: %v", ErrParse, s.ID, err)
		}
		stations = append(stations, st)
	}
	return stations, nil
}

func (s Station) toDomain() (domain.Station, error) {
	zone, err := domain.LoadZone(s.Timezone)
	if err != nil {
		return domain.Station{}, err
	}

	connectors := make([]domain.ConnectorType, 0, len(s.ConnectorTypes))
	for _, c := range s.ConnectorTypes {
		connectors = append(connectors, domain.ConnectorType(c))
	}

	st := domain.Station{
		ID:             s.ID,
		Name:           s.Name,
		Location:       s.Location,
		Coordinates:    domain.GeoPoint{Latitude: s.Latitude, Longitude: s.Longitude},
		ConnectorTypes: connectors,
		TariffPerUnit:  s.TariffPerUnit,
		OperatingHours: domain.OperatingHours{
			Open:     types.TimeString(s.OpenTime),
			Close:    types.TimeString(s.CloseTime),
			Location: zone,
		},
		Amenities: append([]string(nil), s.Amenities...),
	}

	if len(s.Chargers) == 0 {
		st.Chargers = domain.GenerateChargers(s.ID, s.TotalChargers, connectors)
		return st, nil
	}

	st.Chargers = make([]domain.Charger, 0, len(s.Chargers))
	for _, c := range s.Chargers {
		st.Chargers = append(st.Chargers, domain.Charger{
			ID:            c.ID,
			StationID:     s.ID,
			ConnectorType: domain.ConnectorType(c.ConnectorType),
			PowerKW:       c.PowerKW,
		})
	}
	return st, nil
}
