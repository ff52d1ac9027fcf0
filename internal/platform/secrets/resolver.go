package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// ErrSecretNotFound is returned when no secret in the account references the
// configured database cluster, by tag or by name.
var ErrSecretNotFound = errors.New("no database secret found for cluster")

// SecretsAPI is the subset of the Secrets Manager client the resolver needs.
type SecretsAPI interface {
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Credentials is the structured payload stored in an RDS-managed secret.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"dbname"`
}

// DSN renders the credentials as a postgres connection URL.
func (c Credentials) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// Resolver locates the database secret for a cluster and fetches its rotating
// credential payload. The secret's location (ARN) is discovered once and
// cached for the life of the process; the secret value is fetched on every
// Resolve call because managed rotation may replace it at any time.
type Resolver struct {
	client    SecretsAPI
	clusterID string
	dbName    string // fallback when the secret payload omits dbname

	mu        sync.Mutex
	secretARN string
}

func NewResolver(client SecretsAPI, clusterID, dbName string) *Resolver {
	return &Resolver{client: client, clusterID: clusterID, dbName: dbName}
}

// NewClient builds a Secrets Manager client from the ambient AWS configuration.
func NewClient(ctx context.Context) (*secretsmanager.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

// Resolve returns the current database credentials. The first call discovers
// the secret's ARN; later calls reuse it. A not-found or access-denied error
// from the store drops the cached ARN so the next call re-discovers it.
func (r *Resolver) Resolve(ctx context.Context) (Credentials, error) {
	arn, err := r.secretLocation(ctx)
	if err != nil {
		return Credentials{}, err
	}

	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(arn),
	})
	if err != nil {
		if isStaleLocation(err) {
			r.Invalidate()
		}
		return Credentials{}, fmt.Errorf("fetch secret value: %w", err)
	}
	if out.SecretString == nil {
		return Credentials{}, fmt.Errorf("secret %s has no string payload", arn)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return Credentials{}, fmt.Errorf("parse secret payload: %w", err)
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("secret %s is missing username or password", arn)
	}
	if creds.Port == 0 {
		creds.Port = 5432
	}
	if creds.DBName == "" {
		creds.DBName = r.dbName
	}
	return creds, nil
}

// Invalidate drops the cached secret location so the next Resolve re-discovers it.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.secretARN = ""
	r.mu.Unlock()
}

func (r *Resolver) secretLocation(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.secretARN != "" {
		return r.secretARN, nil
	}

	arn, err := r.discoverByTag(ctx)
	if err != nil {
		return "", err
	}
	if arn == "" {
		arn, err = r.discoverByName(ctx)
		if err != nil {
			return "", err
		}
	}
	if arn == "" {
		return "", fmt.Errorf("%w %s", ErrSecretNotFound, r.clusterID)
	}

	r.secretARN = arn
	return arn, nil
}

// discoverByTag scans secrets whose tag values reference the cluster identifier.
func (r *Resolver) discoverByTag(ctx context.Context) (string, error) {
	input := &secretsmanager.ListSecretsInput{
		Filters: []types.Filter{
			{Key: types.FilterNameStringTypeTagValue, Values: []string{r.clusterID}},
		},
	}
	for {
		out, err := r.client.ListSecrets(ctx, input)
		if err != nil {
			return "", fmt.Errorf("list secrets by tag: %w", err)
		}
		for _, entry := range out.SecretList {
			if entry.ARN != nil {
				return *entry.ARN, nil
			}
		}
		if out.NextToken == nil {
			return "", nil
		}
		input.NextToken = out.NextToken
	}
}

// discoverByName falls back to the managed-secret naming convention when tag
// discovery yields nothing.
func (r *Resolver) discoverByName(ctx context.Context) (string, error) {
	input := &secretsmanager.ListSecretsInput{}
	for {
		out, err := r.client.ListSecrets(ctx, input)
		if err != nil {
			return "", fmt.Errorf("list secrets by name: %w", err)
		}
		for _, entry := range out.SecretList {
			if entry.ARN == nil || entry.Name == nil {
				continue
			}
			name := *entry.Name
			if strings.HasPrefix(name, "rds!cluster-") || strings.Contains(name, r.clusterID) {
				return *entry.ARN, nil
			}
		}
		if out.NextToken == nil {
			return "", nil
		}
		input.NextToken = out.NextToken
	}
}

// isStaleLocation reports whether the error means the cached ARN no longer
// points at a readable secret (deleted, rotated away, or permissions revoked).
func isStaleLocation(err error) bool {
	var nf *types.ResourceNotFoundException
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "AccessDeniedException"
	}
	return false
}
