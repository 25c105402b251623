package jwc

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var LoginFailed = fmt.Errorf("Failed to login to the educational administration system.")

// Client talks to a SWJTU-style educational administration portal
// ("jiaowuchu"). A client holds at most one authenticated session,
// created by Login and valid for the lifetime of one sync run.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	authenticated bool
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	instrumentResty(client)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

func (c *Client) Authenticated() bool {
	return c.authenticated
}

// Login performs the portal's form handshake: fetch the login page,
// lift the hidden ticket out of the form, post credentials, then
// probe the student landing page to confirm the session took.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/vatuu/UserLoginAction.action?flag=loginPage")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		return err
	}

	ticket := doc.Find("input[name=ticket]").AttrOr("value", "")
	if ticket == "" {
		span.SetStatus(codes.Error, "failed to find login ticket")
		return fmt.Errorf("could not find login ticket")
	}

	_, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"ticket":   ticket,
			"username": username,
			"password": password,
			"url":      "",
		}).
		Post("/vatuu/UserLoginAction.action")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	res, err = c.Http.R().
		SetContext(ctx).
		Get("/vatuu/StudentAction.action?setAction=studentInfo")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request student page after login")
		return err
	}
	doc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse student page html")
		return err
	}

	// a bounced login lands back on the form
	if len(doc.Find("input[name=ticket]").Nodes) > 0 {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return LoginFailed
	}

	c.authenticated = true
	return nil
}
