package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/sharing"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/users"

	"family-drop/internal/config"
	"family-drop/internal/logging"
)

// dropboxFiles is the part of files.Client used by Dropbox.
type dropboxFiles interface {
	GetMetadata(arg *files.GetMetadataArg) (files.IsMetadata, error)
	CreateFolderV2(arg *files.CreateFolderArg) (*files.CreateFolderResult, error)
	Upload(arg *files.UploadArg, content io.Reader) (*files.FileMetadata, error)
}

// dropboxSharing is the part of sharing.Client used by Dropbox.
type dropboxSharing interface {
	CreateSharedLinkWithSettings(arg *sharing.CreateSharedLinkWithSettingsArg) (sharing.IsSharedLinkMetadata, error)
	ListSharedLinks(arg *sharing.ListSharedLinksArg) (*sharing.ListSharedLinksResult, error)
}

// dropboxUsers is the part of users.Client used by Dropbox.
type dropboxUsers interface {
	GetCurrentAccount() (*users.FullAccount, error)
}

// Dropbox stores each family in a folder below a root path and returns
// direct-download shared links.
//
// The SDK does not accept a context, so cancellation is only observed
// between calls.
type Dropbox struct {
	files   dropboxFiles
	sharing dropboxSharing
	users   dropboxUsers
	root    string
}

func NewDropbox(cfg config.DropboxConfig) *Dropbox {
	dbxCfg := dropbox.Config{
		Token:    cfg.AccessToken,
		LogLevel: dropbox.LogOff,
	}
	return newDropbox(files.New(dbxCfg), sharing.New(dbxCfg), users.New(dbxCfg), cfg.RootPath)
}

func newDropbox(f dropboxFiles, s dropboxSharing, u dropboxUsers, root string) *Dropbox {
	return &Dropbox{files: f, sharing: s, users: u, root: root}
}

func (d *Dropbox) folderPath(name string) string {
	return path.Join("/", d.root, name)
}

func isDropboxLookupNotFound(err error) bool {
	var apiErr files.GetMetadataAPIError
	if errors.As(err, &apiErr) {
		return apiErr.EndpointError != nil && apiErr.EndpointError.Path != nil &&
			apiErr.EndpointError.Path.Tag == files.LookupErrorNotFound
	}
	var apiErrPtr *files.GetMetadataAPIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.EndpointError != nil && apiErrPtr.EndpointError.Path != nil &&
			apiErrPtr.EndpointError.Path.Tag == files.LookupErrorNotFound
	}
	return false
}

func isDropboxFolderConflict(err error) bool {
	var apiErr files.CreateFolderV2APIError
	if errors.As(err, &apiErr) {
		return apiErr.EndpointError != nil && apiErr.EndpointError.Path != nil &&
			apiErr.EndpointError.Path.Tag == files.WriteErrorConflict
	}
	var apiErrPtr *files.CreateFolderV2APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.EndpointError != nil && apiErrPtr.EndpointError.Path != nil &&
			apiErrPtr.EndpointError.Path.Tag == files.WriteErrorConflict
	}
	return false
}

func isDropboxLinkExists(err error) bool {
	var apiErr sharing.CreateSharedLinkWithSettingsAPIError
	if errors.As(err, &apiErr) {
		return apiErr.EndpointError != nil &&
			apiErr.EndpointError.Tag == sharing.CreateSharedLinkWithSettingsErrorSharedLinkAlreadyExists
	}
	var apiErrPtr *sharing.CreateSharedLinkWithSettingsAPIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.EndpointError != nil &&
			apiErrPtr.EndpointError.Tag == sharing.CreateSharedLinkWithSettingsErrorSharedLinkAlreadyExists
	}
	return false
}

// lookupFolder reports whether p exists and is a folder.
func (d *Dropbox) lookupFolder(p string) (bool, error) {
	md, err := d.files.GetMetadata(files.NewGetMetadataArg(p))
	if err != nil {
		if isDropboxLookupNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get dropbox metadata for %s: %w", p, err)
	}
	if _, ok := md.(*files.FolderMetadata); !ok {
		return false, fmt.Errorf("%s: %w", p, ErrNotFolder)
	}
	return true, nil
}

func (d *Dropbox) ResolveContainer(ctx context.Context, name string) (Container, error) {
	if err := ctx.Err(); err != nil {
		return Container{}, err
	}

	p := d.folderPath(name)
	found, err := d.lookupFolder(p)
	if err != nil {
		return Container{}, err
	}
	if found {
		logging.Debug("dropbox_folder_found", map[string]any{"path": p, "family": name})
		return Container{ID: p, Name: name}, nil
	}

	if err := ctx.Err(); err != nil {
		return Container{}, err
	}
	if _, err := d.files.CreateFolderV2(files.NewCreateFolderArg(p)); err != nil {
		if !isDropboxFolderConflict(err) {
			return Container{}, fmt.Errorf("create dropbox folder %s: %w", p, err)
		}
		// Someone else created it first; make sure it is a folder.
		if found, err := d.lookupFolder(p); err != nil {
			return Container{}, err
		} else if !found {
			return Container{}, fmt.Errorf("create dropbox folder %s: conflict but folder not found", p)
		}
		return Container{ID: p, Name: name}, nil
	}
	logging.Info("dropbox_folder_created", map[string]any{"path": p, "family": name})

	return Container{ID: p, Name: name}, nil
}

func (d *Dropbox) WriteObject(ctx context.Context, c Container, obj Object) (ObjectRef, error) {
	if err := ctx.Err(); err != nil {
		return ObjectRef{}, err
	}

	p := path.Join(c.ID, obj.Name)
	arg := files.NewUploadArg(p)
	arg.Mode = &files.WriteMode{Tagged: dropbox.Tagged{Tag: files.WriteModeOverwrite}}
	arg.Mute = true

	md, err := d.files.Upload(arg, obj.Body)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("upload %q to dropbox: %w", obj.Name, err)
	}

	ref := ObjectRef{ID: p, Name: obj.Name, Container: c}
	if md != nil {
		if md.PathDisplay != "" {
			ref.ID = md.PathDisplay
		}
		if md.Name != "" {
			ref.Name = md.Name
		}
	}
	return ref, nil
}

func sharedLinkURL(md sharing.IsSharedLinkMetadata) string {
	switch m := md.(type) {
	case *sharing.FileLinkMetadata:
		return m.Url
	case *sharing.FolderLinkMetadata:
		return m.Url
	}
	return ""
}

// existingLink returns a direct shared link already issued for p, if any.
func (d *Dropbox) existingLink(p string) (string, error) {
	arg := sharing.NewListSharedLinksArg()
	arg.Path = p
	arg.DirectOnly = true

	res, err := d.sharing.ListSharedLinks(arg)
	if err != nil {
		return "", fmt.Errorf("list dropbox shared links for %s: %w", p, err)
	}
	for _, l := range res.Links {
		if u := sharedLinkURL(l); u != "" {
			return u, nil
		}
	}
	return "", fmt.Errorf("dropbox reported an existing shared link for %s but listed none", p)
}

func (d *Dropbox) IssueShareableLink(ctx context.Context, ref ObjectRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var raw string
	md, err := d.sharing.CreateSharedLinkWithSettings(sharing.NewCreateSharedLinkWithSettingsArg(ref.ID))
	switch {
	case err == nil:
		raw = sharedLinkURL(md)
	case isDropboxLinkExists(err):
		if err := ctx.Err(); err != nil {
			return "", err
		}
		raw, err = d.existingLink(ref.ID)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("create dropbox shared link for %q: %w", ref.Name, err)
	}

	if raw == "" {
		return "", fmt.Errorf("dropbox returned no link for %q", ref.Name)
	}
	return DirectDownloadLink(raw)
}

// Ping checks the access token against the current account and, when a
// root folder is configured, that it is not a file.
func (d *Dropbox) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.users.GetCurrentAccount(); err != nil {
		return fmt.Errorf("dropbox ping: %w", err)
	}
	if d.root == "" || d.root == "/" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.lookupFolder(path.Join("/", d.root)); err != nil {
		return fmt.Errorf("dropbox ping: %w", err)
	}
	return nil
}
