package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
)

type Client struct {
	senderAddress  string
	noReplyAddress string
	siteName       string
	client         http.Client
	apiKey         string
	baseURL        string
}

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type EmailMessage struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	ReplyTo     Address   `json:"replyTo,omitempty"`
	TextContent string    `json:"textContent,omitempty"`
	HtmlContent string    `json:"htmlContent,omitempty"`
}

func NewClient(apiKey, senderAddress, noReplyAddress, siteName string) (Client, error) {
	return Client{
		client:         *http.DefaultClient,
		apiKey:         apiKey,
		senderAddress:  senderAddress,
		noReplyAddress: noReplyAddress,
		siteName:       siteName,
		baseURL:        "https://api.sendinblue.com",
	}, nil
}

func (e Client) DefaultSenderName() string {
	return e.siteName
}

func (e Client) SupportSenderAddress() string {
	return e.senderAddress
}

func (e Client) NoReplySenderAddress() string {
	return e.noReplyAddress
}

// SendTextEmail sends a plain text transactional email
func (e Client) SendTextEmail(from, to Address, subject, text string) error {
	msg := EmailMessage{
		Sender:      from,
		ReplyTo:     from,
		Subject:     subject,
		To:          []Address{to},
		TextContent: text,
	}
	return e.send(msg)
}

// SendHTMLEmail sends an html transactional email
func (e Client) SendHTMLEmail(from, to Address, subject, html string) error {
	msg := EmailMessage{
		Sender:      from,
		ReplyTo:     from,
		Subject:     subject,
		To:          []Address{to},
		HtmlContent: html,
	}
	return e.send(msg)
}

func (e Client) send(msg EmailMessage) error {
	reqData, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/v3/smtp/email", bytes.NewReader(reqData))
	if err != nil {
		return err
	}
	req.Header.Add("api-key", e.apiKey)
	req.Header.Add("Content-Type", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode > 299 {
		out, _ := ioutil.ReadAll(res.Body)
		return fmt.Errorf("unexpected status code %d returned from email api: %s", res.StatusCode, string(out))
	}
	return nil
}
