package ledger

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
	"github.com/jsphweid/digiscore/constants"
	"github.com/pkg/errors"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Entry is one processed file of one run.
type Entry struct {
	RunID     string
	Path      string
	Command   string
	Status    Status
	Detail    string
	Timestamp time.Time
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) error {
	return nil
}

func NewRunID() string {
	return uuid.New().String()
}

type DynamoRecorder struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamoRecorder(client dynamodbiface.DynamoDBAPI, table string) *DynamoRecorder {
	return &DynamoRecorder{client: client, table: table}
}

func item(e Entry) map[string]*dynamodb.AttributeValue {
	res := map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(e.RunID)},
		"SK":        {S: aws.String(e.Path)},
		"Command":   {S: aws.String(e.Command)},
		"Status":    {S: aws.String(string(e.Status))},
		"Timestamp": {S: aws.String(e.Timestamp.UTC().Format(time.RFC3339))},
	}
	// empty strings are not allowed as attribute values
	if e.Detail != "" {
		res["Detail"] = &dynamodb.AttributeValue{S: aws.String(e.Detail)}
	}
	return res
}

func (r *DynamoRecorder) Record(ctx context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := r.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item(e),
	})
	if err != nil {
		return errors.Wrapf(err, "recording %v in %v", e.Path, r.table)
	}
	return nil
}

// FromEnv returns a DynamoRecorder for LEDGER_TABLE, or a NopRecorder when no
// table is configured.
func FromEnv() (Recorder, error) {
	table := constants.GetLedgerTable()
	if table == "" {
		return NopRecorder{}, nil
	}

	cfg := &aws.Config{Region: aws.String(constants.GetRegion())}
	if endpoint := constants.GetLedgerEndpoint(); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating DynamoDB session")
	}
	return NewDynamoRecorder(dynamodb.New(sess), table), nil
}
