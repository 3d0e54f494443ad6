package server

import (
	"crypto/tls"
	"crypto/x509"
	"path/filepath"
	"testing"
)

// TestGenerateSelfSignedTLSConfig 测试开发证书的生成和复用
func TestGenerateSelfSignedTLSConfig(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "chat_dev_cert.pem")
	keyFile := filepath.Join(dir, "chat_dev_key.pem")

	cfg, err := generateSelfSignedTLSConfig(certFile, keyFile)
	if err != nil {
		t.Fatalf("生成自签名证书失败: %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS13 {
		t.Error("WebTransport 要求 TLS 1.3")
	}
	if len(cfg.NextProtos) == 0 || cfg.NextProtos[0] != "h3" {
		t.Errorf("期望 ALPN 包含 h3，得到 %v", cfg.NextProtos)
	}

	if len(cfg.Certificates) != 1 {
		t.Fatalf("期望 1 个证书，得到 %d", len(cfg.Certificates))
	}
	leaf, err := x509.ParseCertificate(cfg.Certificates[0].Certificate[0])
	if err != nil {
		t.Fatalf("解析证书失败: %v", err)
	}
	if err := leaf.VerifyHostname("localhost"); err != nil {
		t.Errorf("证书应覆盖 localhost: %v", err)
	}

	// 第二次调用应复用缓存的证书而不是重新生成
	cfg2, err := generateSelfSignedTLSConfig(certFile, keyFile)
	if err != nil {
		t.Fatalf("加载缓存证书失败: %v", err)
	}
	leaf2, err := x509.ParseCertificate(cfg2.Certificates[0].Certificate[0])
	if err != nil {
		t.Fatalf("解析缓存证书失败: %v", err)
	}
	if !leaf2.NotAfter.Equal(leaf.NotAfter) || leaf2.SerialNumber.Cmp(leaf.SerialNumber) != 0 {
		t.Error("第二次调用应复用同一张证书")
	}
}
