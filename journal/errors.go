package journal

import "errors"

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
var ErrEmptyEventType = errors.New("event type must not be empty")

var ErrEmptyTableName = errors.New("empty table name supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrQueryingEventsFailed = errors.New("querying events failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrBuildingStorableEventFailed = errors.New("building storable event failed")
var ErrAppendingEventFailed = errors.New("appending event failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrMigrationFailed = errors.New("journal schema migration failed")
