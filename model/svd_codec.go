package model

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// 模型产物是带版本号的二进制格式：
//
//	magic "MKSV" | version u32 | 超参数 | globalMean |
//	nUsers u32 | userIDs | userBias | userFactors |
//	nItems u32 | itemIDs | itemBias | itemFactors |
//	nEpochs u32 | epochRMSE
//
// 数值一律小端。加载时校验 magic 与 version，磁盘格式从此与代码布局解耦。
// 产物缺失不是错误：排序节点在无模型时退化为常数兜底分。

var svdMagic = [4]byte{'M', 'K', 'S', 'V'}

// SVDFormatVersion 是当前产物格式的版本号。格式变更时必须递增。
const SVDFormatVersion uint32 = 1

// Save 把训练完成的模型序列化到文件。
func (m *SVD) Save(path string) error {
	if !m.trained {
		return fmt.Errorf("model: cannot save untrained model")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := m.WriteTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTo 把模型写入任意 writer。
func (m *SVD) WriteTo(w io.Writer) error {
	if _, err := w.Write(svdMagic[:]); err != nil {
		return err
	}
	head := []any{
		SVDFormatVersion,
		int32(m.cfg.Factors), int32(m.cfg.Epochs), m.cfg.LR, m.cfg.Reg, m.cfg.Seed,
		m.globalMean,
	}
	for _, v := range head {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if err := writeSide(w, m.userIDs, m.userBias, m.userFactors); err != nil {
		return err
	}
	if err := writeSide(w, m.itemIDs, m.itemBias, m.itemFactors); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.epochRMSE))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, m.epochRMSE)
}

// Load 从文件加载模型产物。返回的模型已处于可服务状态。
func Load(path string) (*SVD, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(bufio.NewReader(f))
}

// ReadFrom 从任意 reader 解析模型产物。
func ReadFrom(r io.Reader) (*SVD, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("model: read magic: %w", err)
	}
	if magic != svdMagic {
		return nil, fmt.Errorf("model: bad magic %q, not an svd artifact", magic[:])
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != SVDFormatVersion {
		return nil, fmt.Errorf("model: unsupported artifact version %d (want %d)", version, SVDFormatVersion)
	}

	m := &SVD{Logger: zerolog.Nop()}
	var factors, epochs int32
	for _, v := range []any{&factors, &epochs, &m.cfg.LR, &m.cfg.Reg, &m.cfg.Seed, &m.globalMean} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	m.cfg.Factors = int(factors)
	m.cfg.Epochs = int(epochs)

	var err error
	if m.userIDs, m.userBias, m.userFactors, err = readSide(r, m.cfg.Factors); err != nil {
		return nil, err
	}
	if m.itemIDs, m.itemBias, m.itemFactors, err = readSide(r, m.cfg.Factors); err != nil {
		return nil, err
	}
	m.userIndex = indexOf(m.userIDs)
	m.itemIndex = indexOf(m.itemIDs)

	var nRMSE uint32
	if err := binary.Read(r, binary.LittleEndian, &nRMSE); err != nil {
		return nil, err
	}
	m.epochRMSE = make([]float64, nRMSE)
	if err := binary.Read(r, binary.LittleEndian, m.epochRMSE); err != nil {
		return nil, err
	}

	m.trained = true
	return m, nil
}

func writeSide(w io.Writer, ids []int64, bias []float64, factors [][]float64) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ids))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ids); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, bias); err != nil {
		return err
	}
	for _, row := range factors {
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return nil
}

func readSide(r io.Reader, nFactors int) ([]int64, []float64, [][]float64, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, nil, nil, err
	}
	ids := make([]int64, n)
	if err := binary.Read(r, binary.LittleEndian, ids); err != nil {
		return nil, nil, nil, err
	}
	bias := make([]float64, n)
	if err := binary.Read(r, binary.LittleEndian, bias); err != nil {
		return nil, nil, nil, err
	}
	factors := make([][]float64, n)
	for i := range factors {
		row := make([]float64, nFactors)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, nil, nil, err
		}
		factors[i] = row
	}
	return ids, bias, factors, nil
}
