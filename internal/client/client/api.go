package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

// SignIn authenticates with email and password. The token is read from the
// reply's "token" field, falling back to the access_token cookie.
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", models.User{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/user/signin", nil, bytes.NewReader(body))
	if err != nil {
		return "", models.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	data, header, err := c.send(req)
	if err != nil {
		return "", models.User{}, err
	}

	var reply struct {
		models.User
		Token string       `json:"token"`
		Inner *models.User `json:"user"`
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", models.User{}, fmt.Errorf("decode sign-in reply: %w", err)
	}
	user := reply.User
	if reply.Inner != nil {
		user = *reply.Inner
	}

	token := reply.Token
	if token == "" {
		token = cookieToken(header)
	}
	if token == "" {
		return "", models.User{}, fmt.Errorf("sign-in reply carried no token: %w", ErrUnauthorized)
	}
	return token, user, nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodPost, "/api/user/signout", nil, nil)
	return err
}

// UpdateUser sends a partial profile update and returns the reply verbatim.
func (c *HTTPClient) UpdateUser(ctx context.Context, id string, changes any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, "/api/user/update/"+url.PathEscape(id), nil, changes)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/api/user/delete/"+url.PathEscape(id), nil, nil)
	return err
}

// List fetches one page of res. startIndex is ignored for resources without
// pagination.
func (c *HTTPClient) List(ctx context.Context, res Resource, startIndex int) ([]models.Record, error) {
	var out []models.Record
	if err := c.list(ctx, res, startIndex, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Get(ctx context.Context, res Resource, id string) (models.Record, error) {
	switch {
	case res.GetPath != "":
		var rec models.Record
		if err := c.DoJSON(ctx, http.MethodGet, expand(res.GetPath, url.PathEscape(id), ""), nil, nil, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case res.GetQuery != "":
		raw, err := c.Do(ctx, http.MethodGet, res.ListPath, url.Values{res.GetQuery: {id}}, nil)
		if err != nil {
			return nil, err
		}
		var recs []models.Record
		if err := decodeList(raw, res.ListKey, &recs); err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, fmt.Errorf("%s %s: %w", res.Name, id, ErrNotFound)
		}
		return recs[0], nil
	}
	return nil, fmt.Errorf("%s: get is not supported", res.Name)
}

// Create posts a new record and returns the reply verbatim.
func (c *HTTPClient) Create(ctx context.Context, res Resource, body any) (json.RawMessage, error) {
	if !res.CanCreate() {
		return nil, fmt.Errorf("%s: create is not supported", res.Name)
	}
	return c.Do(ctx, http.MethodPost, res.CreatePath, nil, body)
}

// Update sends body for record id; userID fills {user} where the route
// requires it.
func (c *HTTPClient) Update(ctx context.Context, res Resource, id, userID string, body any) (json.RawMessage, error) {
	if !res.CanUpdate() {
		return nil, fmt.Errorf("%s: update is not supported", res.Name)
	}
	return c.Do(ctx, http.MethodPut, expand(res.UpdatePath, url.PathEscape(id), url.PathEscape(userID)), nil, body)
}

func (c *HTTPClient) Delete(ctx context.Context, res Resource, id, userID string) error {
	if !res.CanDelete() {
		return fmt.Errorf("%s: delete is not supported", res.Name)
	}
	_, err := c.Do(ctx, http.MethodDelete, expand(res.DeletePath, url.PathEscape(id), url.PathEscape(userID)), nil, nil)
	return err
}

// DeleteVehicleImages detaches image URLs from a vehicle.
func (c *HTTPClient) DeleteVehicleImages(ctx context.Context, id string, urls []string) error {
	body := map[string][]string{"images": urls}
	_, err := c.Do(ctx, http.MethodPatch, "/api/vehicles/"+url.PathEscape(id)+"/delete-images", nil, body)
	return err
}

func (c *HTTPClient) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	err := c.DoJSON(ctx, http.MethodGet, "/api/stats/stats", nil, nil, &s)
	return s, err
}

func (c *HTTPClient) Bookings(ctx context.Context, startIndex int) ([]models.Booking, error) {
	res, _ := Lookup("bookings")
	var out []models.Booking
	if err := c.list(ctx, res, startIndex, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Dealers(ctx context.Context) ([]models.DealerApplication, error) {
	res, _ := Lookup("dealers")
	var out []models.DealerApplication
	if err := c.list(ctx, res, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadImage sends a file to the API's upload relay and returns its URL.
func (c *HTTPClient) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	raw, err := c.PostFile(ctx, "/api/cloudinary/upload", "file", filename, r)
	if err != nil {
		return "", err
	}
	var reply struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("decode upload reply: %w", err)
	}
	if reply.URL == "" {
		reply.URL = reply.SecureURL
	}
	if reply.URL == "" {
		return "", fmt.Errorf("upload reply carried no url")
	}
	return reply.URL, nil
}

func (c *HTTPClient) list(ctx context.Context, res Resource, startIndex int, out any) error {
	var q url.Values
	if res.Paginated && startIndex > 0 {
		q = url.Values{"startIndex": {strconv.Itoa(startIndex)}}
	}
	raw, err := c.Do(ctx, http.MethodGet, res.ListPath, q, nil)
	if err != nil {
		return err
	}
	return decodeList(raw, res.ListKey, out)
}

// decodeList accepts either a bare JSON array or an object holding the array
// under key.
func decodeList(raw json.RawMessage, key string, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	items, ok := envelope[key]
	if !ok {
		return fmt.Errorf("decode list: missing %q", key)
	}
	if err := json.Unmarshal(items, out); err != nil {
		return fmt.Errorf("decode list %q: %w", key, err)
	}
	return nil
}
