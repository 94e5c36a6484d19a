package station

import (
	"github.com/m04kA/SMC-ChargingService/pkg/dbmetrics"
)

// DBExecutor *sql.DB или *dbmetrics.DB
type DBExecutor = dbmetrics.DBExecutor
