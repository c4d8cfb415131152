package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmeg/dbpedia-loader/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultURL is the English short abstracts dump of the dbpedia 3.9 release
const DefaultURL = "http://downloads.dbpedia.org/3.9/en/short_abstracts_en.ttl.bz2"

// DefaultPath is where DefaultURL is stored locally
const DefaultPath = "data/short_abstracts_en.ttl.bz2"

// S3Config describes the object store used for s3:// sources
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Fetcher downloads dumps that are not present locally
type Fetcher struct {
	HTTP *http.Client
	S3   S3Config
}

// Ensure makes sure path exists, downloading src into it if it does not.
// The download is written next to path with a .part suffix and renamed
// once complete, so an interrupted download never leaves a truncated dump.
// It reports whether a download happened.
func (f *Fetcher) Ensure(ctx context.Context, src, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		log.WithFields(log.Fields{"path": path}).Debug("dump present, skipping download")
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	part := path + ".part"
	log.WithFields(log.Fields{"url": src, "path": path}).Info("downloading dump")
	var err error
	switch {
	case strings.HasPrefix(src, "s3://"):
		err = f.getS3(ctx, src, part)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		err = f.getHTTP(ctx, src, part)
	default:
		err = fmt.Errorf("unsupported url scheme: %s", src)
	}
	if err != nil {
		if rerr := os.Remove(part); rerr != nil && !os.IsNotExist(rerr) {
			log.Warningf("Can't remove partial download %s: %v", part, rerr)
		}
		return false, err
	}
	if err := os.Rename(part, path); err != nil {
		return false, err
	}
	return true, nil
}

// Ensure downloads src into path with a default Fetcher
func Ensure(ctx context.Context, src, path string) (bool, error) {
	f := &Fetcher{}
	return f.Ensure(ctx, src, path)
}

func (f *Fetcher) getHTTP(ctx context.Context, src, dst string) error {
	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", src, resp.Status)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		return fmt.Errorf("GET %s: %w", src, err)
	}
	log.Debugf("Downloaded %d bytes", n)
	return out.Close()
}

func (f *Fetcher) getS3(ctx context.Context, src, dst string) error {
	bucket, key, err := parseS3URL(src)
	if err != nil {
		return err
	}
	endpoint := f.S3.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(f.S3.AccessKey, f.S3.SecretKey, ""),
		Secure: f.S3.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", endpoint, err)
	}
	if err := client.FGetObject(ctx, bucket, key, dst, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("getting %s: %w", src, err)
	}
	return nil
}

func parseS3URL(src string) (string, string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 url: %s", src)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs a bucket and a key: %s", src)
	}
	return u.Host, key, nil
}
