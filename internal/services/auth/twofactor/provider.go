// internal/services/auth/twofactor/provider.go
package twofactor

import (
	"context"
	"fmt"

	"workwise-backend/internal/common/aws"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const ChannelWhatsApp = "whatsapp"

// VerificationProvider delivers a one-time code to a phone number
type VerificationProvider interface {
	SendCode(ctx context.Context, phone, code string) error
	Channel() string
}

// SNSProvider delivers codes via Amazon SNS transactional SMS. WhatsApp
// delivery rides the same path on the provider side.
type SNSProvider struct {
	client   *aws.SNSClient
	senderID string
}

func NewSNSProvider(client *aws.SNSClient, senderID string) *SNSProvider {
	return &SNSProvider{client: client, senderID: senderID}
}

func (p *SNSProvider) SendCode(ctx context.Context, phone, code string) error {
	message := fmt.Sprintf("Your WorkWise verification code is %s. It expires in 10 minutes.", code)

	attributes := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String("Transactional"),
		},
	}
	if p.senderID != "" {
		attributes["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String(p.senderID),
		}
	}

	input := &sns.PublishInput{
		Message:           awssdk.String(message),
		PhoneNumber:       awssdk.String(phone),
		MessageAttributes: attributes,
	}

	_, err := p.client.Publish(ctx, input)
	return err
}

func (p *SNSProvider) Channel() string {
	return ChannelWhatsApp
}
