package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

func (b *Bot) fetchFile(ctx context.Context, fileID string) (tgbotapi.File, io.ReadCloser, error) {
	file, err := b.Api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return tgbotapi.File{}, nil, utils.WrapError(err, "failed to resolve telegram file", map[string]any{
			"file_id": fileID,
		})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.Api.Token), nil)
	if err != nil {
		return tgbotapi.File{}, nil, utils.WrapError(err, "failed to build file request", nil)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return tgbotapi.File{}, nil, utils.WrapError(err, "failed to download telegram file", map[string]any{
			"file_id": fileID,
		})
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return tgbotapi.File{}, nil, utils.WrapError(fmt.Errorf("unexpected status %d", resp.StatusCode), "failed to download telegram file", map[string]any{
			"file_id": fileID,
		})
	}
	return file, resp.Body, nil
}

// DownloadFile fetches a Telegram-hosted file (voice message, photo,
// forwarded video) to destPath.
func (b *Bot) DownloadFile(ctx context.Context, fileID, destPath string) error {
	_, body, err := b.fetchFile(ctx, fileID)
	if err != nil {
		return err
	}
	defer body.Close()
	return writeFile(destPath, body)
}

// DownloadFileBytes fetches a Telegram-hosted file into memory. Meant for
// small payloads such as photos handed to the QR decoder.
func (b *Bot) DownloadFileBytes(ctx context.Context, fileID string) ([]byte, error) {
	_, body, err := b.fetchFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, utils.WrapError(err, "failed to read telegram file", map[string]any{
			"file_id": fileID,
		})
	}
	return data, nil
}

// DownloadFileToDir saves a Telegram-hosted file under dir as base plus the
// extension of the remote path. Telegram omits the extension for some media,
// in which case .mp4 is assumed.
func (b *Bot) DownloadFileToDir(ctx context.Context, fileID, dir, base string) (string, error) {
	file, body, err := b.fetchFile(ctx, fileID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	ext := filepath.Ext(file.FilePath)
	if ext == "" {
		ext = ".mp4"
	}
	destPath := filepath.Join(dir, base+ext)
	if err := writeFile(destPath, body); err != nil {
		return "", err
	}
	return destPath, nil
}

func writeFile(destPath string, body io.Reader) error {
	out, err := os.Create(destPath)
	if err != nil {
		return utils.WrapError(err, "failed to create file", map[string]any{
			"path": destPath,
		})
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		os.Remove(destPath)
		return utils.WrapError(err, "failed to save telegram file", map[string]any{
			"path": destPath,
		})
	}
	return nil
}
