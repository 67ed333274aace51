package booking

import (
	"github.com/theyool/booking-service/pkg/dbmetrics"
)

// DBExecutor reused from dbmetrics; supports *sql.DB and *dbmetrics.DB
type DBExecutor = dbmetrics.DBExecutor
