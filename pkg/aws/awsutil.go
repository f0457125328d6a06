package aws

import (
	"context"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

// Client is an abstraction layer for interacting with AWS services.
type Client struct {
	s3 s3.S3
}

// NewClient creates a new AWS client, expecting that the environment variables configure the settings.
func NewClient() *Client {
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	return &Client{
		s3: *s3.New(sess),
	}
}

// ObjectSize returns the size in bytes of an S3 object.
func (c *Client) ObjectSize(ctx context.Context, bucket, key string) (int64, error) {
	output, err := c.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		log.Errorf("error getting S3 head object (bucket: %s)(key: %s), err: %v", bucket, key, err)
		return 0, err
	}
	return *output.ContentLength, nil
}

// DownloadObject reads an entire S3 object into memory. The central directory
// parser wants the whole archive resident, so no ranged reads here.
func (c *Client) DownloadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	output, err := c.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		log.Errorf("error getting S3 object (bucket: %s)(key: %s), err: %v", bucket, key, err)
		return nil, err
	}
	defer output.Body.Close()

	body, err := ioutil.ReadAll(output.Body)
	if err != nil {
		log.Errorf("error reading S3 object body (bucket: %s)(key: %s), err: %v", bucket, key, err)
		return nil, err
	}
	return body, nil
}
