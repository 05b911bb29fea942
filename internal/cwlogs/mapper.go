package cwlogs

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"logagrip/internal/domain"
)

func mapField[T any](v *T, field string) (T, error) {
	if v == nil {
		var zero T
		return zero, &domain.MissingFieldError{Field: field}
	}
	return *v, nil
}

func mapUnixEpochMillis(v *int64, field string) (time.Time, error) {
	ms, err := mapField(v, field)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// durationDays converts a retention period in days
func durationDays(days int32) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

// MapLogGroup converts an API log group. Every field but retention is required.
func MapLogGroup(g types.LogGroup) (domain.LogGroup, error) {
	arn, err := mapField(g.Arn, "arn")
	if err != nil {
		return domain.LogGroup{}, err
	}
	created, err := mapUnixEpochMillis(g.CreationTime, "creation_time")
	if err != nil {
		return domain.LogGroup{}, err
	}
	name, err := mapField(g.LogGroupName, "log_group_name")
	if err != nil {
		return domain.LogGroup{}, err
	}
	storedBytes, err := mapField(g.StoredBytes, "stored_bytes")
	if err != nil {
		return domain.LogGroup{}, err
	}
	stored, err := domain.SizeFromInt64(storedBytes)
	if err != nil {
		return domain.LogGroup{}, err
	}

	group := domain.LogGroup{
		ARN:          arn,
		CreationTime: created,
		Name:         name,
		Stored:       stored,
	}
	if g.RetentionInDays != nil {
		retention := durationDays(*g.RetentionInDays)
		group.Retention = &retention
	}
	return group, nil
}

// MapLogGroups converts a page of log groups, failing on the first bad record
func MapLogGroups(groups []types.LogGroup) ([]domain.LogGroup, error) {
	result := make([]domain.LogGroup, 0, len(groups))
	for _, g := range groups {
		group, err := MapLogGroup(g)
		if err != nil {
			return nil, &domain.RemoteParseError{Kind: "log group", Err: err}
		}
		result = append(result, group)
	}
	return result, nil
}

// MapLogStream converts an API log stream
func MapLogStream(s types.LogStream) (domain.LogStream, error) {
	arn, err := mapField(s.Arn, "arn")
	if err != nil {
		return domain.LogStream{}, err
	}
	created, err := mapUnixEpochMillis(s.CreationTime, "creation_time")
	if err != nil {
		return domain.LogStream{}, err
	}
	name, err := mapField(s.LogStreamName, "log_stream_name")
	if err != nil {
		return domain.LogStream{}, err
	}
	first, err := mapUnixEpochMillis(s.FirstEventTimestamp, "first_event_timestamp")
	if err != nil {
		return domain.LogStream{}, err
	}
	last, err := mapUnixEpochMillis(s.LastEventTimestamp, "last_event_timestamp")
	if err != nil {
		return domain.LogStream{}, err
	}
	ingested, err := mapUnixEpochMillis(s.LastIngestionTime, "last_ingestion_time")
	if err != nil {
		return domain.LogStream{}, err
	}

	return domain.LogStream{
		ARN:               arn,
		CreationTime:      created,
		Name:              name,
		FirstEventTime:    first,
		LastEventTime:     last,
		LastIngestionTime: ingested,
	}, nil
}
