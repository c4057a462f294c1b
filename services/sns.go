package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS rejects subjects longer than this.
const snsSubjectLimit = 100

type snsCredentials interface {
	GetSNSTopic() string
	GetAWSAccessKeyID() string
	GetAWSSecretAccessKey() string
	GetAWSRegion() string
}

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	client   snsPublisher
	topicArn string
}

func NewSNSNotifier(ctx context.Context, snsCredentials snsCredentials) (*SNSNotifier, error) {
	options := []func(*config.LoadOptions) error{config.WithRegion(snsCredentials.GetAWSRegion())}
	if snsCredentials.GetAWSAccessKeyID() != "" {
		options = append(options, config.WithCredentialsProvider(
			awscredentials.NewStaticCredentialsProvider(snsCredentials.GetAWSAccessKeyID(), snsCredentials.GetAWSSecretAccessKey(), ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, err
	}

	return NewSNSNotifierWithClient(sns.NewFromConfig(cfg), snsCredentials.GetSNSTopic()), nil
}

func NewSNSNotifierWithClient(client snsPublisher, topicArn string) *SNSNotifier {
	return &SNSNotifier{client: client, topicArn: topicArn}
}

func (notifier *SNSNotifier) Publish(ctx context.Context, subject string, body string) error {
	if runes := []rune(subject); len(runes) > snsSubjectLimit {
		subject = string(runes[:snsSubjectLimit])
	}

	_, err := notifier.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(notifier.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return notificationError("sns", err)
	}
	return nil
}
