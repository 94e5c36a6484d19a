package seed

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/pkg/types"
)

const sample = `
stations:
  - id: 1
    name: Lulu Mall EV Hub
    location: Edappally, Kochi
    latitude: 10.0253
    longitude: 76.3089
    connectorTypes: [CCS2, AC001]
    tariffPerUnit: 12.5
    totalChargers: 3
  - id: 2
    name: Technopark
    location: Kazhakkoottam, Trivandrum
    latitude: 8.5568
    longitude: 76.8811
    connectorTypes: [CCS2, Type 2]
    tariffPerUnit: 10
    openTime: "06:00"
    closeTime: "22:00"
    timezone: Asia/Kolkata
    chargers:
      - id: 1
        connectorType: CCS2
        powerKw: 60
      - id: 2
        connectorType: Type 2
`

func TestLoad(t *testing.T) {
	stations, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, stations, 2)

	lulu := stations[0]
	assert.Equal(t, "Lulu Mall EV Hub", lulu.Name)
	assert.True(t, lulu.OperatingHours.IsAlwaysOpen())
	require.Len(t, lulu.Chargers, 3)
	assert.Equal(t, domain.ConnectorType("AC001"), lulu.Chargers[1].ConnectorType)
	assert.Equal(t, int64(1), lulu.Chargers[2].StationID)

	techno := stations[1]
	assert.Equal(t, types.TimeString("06:00"), techno.OperatingHours.Open)
	assert.Equal(t, "Asia/Kolkata", techno.OperatingHours.Zone().String())
	assert.Equal(t, time.Local, lulu.OperatingHours.Zone())
	require.Len(t, techno.Chargers, 2)
	assert.Equal(t, 60.0, techno.Chargers[0].PowerKW)
	assert.NoError(t, techno.Validate())
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(strings.NewReader("stations:\n  - id: 1\n    tarif: 3\n"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoad_Empty(t *testing.T) {
	stations, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("does-not-exist.yaml")
	assert.ErrorIs(t, err, ErrReadFile)
}

func TestLoadFile_Repository(t *testing.T) {
	stations, err := LoadFile("../../../configs/stations.yaml")
	require.NoError(t, err)
	require.Len(t, stations, 3)
	for _, s := range stations {
		assert.NoError(t, s.Validate(), s.Name)
	}
}

func TestLoad_UnknownTimezone(t *testing.T) {
	const bad = `
stations:
  - id: 4
    name: Broken
    connectorTypes: [CCS2]
    tariffPerUnit: 10
    timezone: Mars/Olympus
    totalChargers: 1
`
	_, err := Load(strings.NewReader(bad))
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "Mars/Olympus")
}
