package blockedtime

import "github.com/theyool/booking-service/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
