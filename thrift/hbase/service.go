package hbase

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// THBaseServiceClient issues THBaseService calls over any thrift.TClient.
type THBaseServiceClient struct {
	c thrift.TClient
}

func NewTHBaseServiceClient(c thrift.TClient) *THBaseServiceClient {
	return &THBaseServiceClient{c: c}
}

func missingResult(method string) error {
	return thrift.NewTApplicationException(thrift.MISSING_RESULT, method+" failed: unknown result")
}

// Get reads one row.
func (c *THBaseServiceClient) Get(ctx context.Context, table []byte, tget *TGet) (*TResult, error) {
	args := &THBaseServiceGetArgs{Table: table, Tget: tget}
	var res THBaseServiceGetResult
	if _, err := c.c.Call(ctx, "get", args, &res); err != nil {
		return nil, err
	}
	if res.Io != nil {
		return nil, res.Io
	}
	if res.Success == nil {
		return nil, missingResult("get")
	}
	return res.Success, nil
}

// Put writes the cells of one row.
func (c *THBaseServiceClient) Put(ctx context.Context, table []byte, tput *TPut) error {
	args := &THBaseServicePutArgs{Table: table, Tput: tput}
	var res THBaseServicePutResult
	if _, err := c.c.Call(ctx, "put", args, &res); err != nil {
		return err
	}
	if res.Io != nil {
		return res.Io
	}
	return nil
}

// DeleteSingle deletes one row or some of its columns.
func (c *THBaseServiceClient) DeleteSingle(ctx context.Context, table []byte, tdelete *TDelete) error {
	args := &THBaseServiceDeleteSingleArgs{Table: table, Tdelete: tdelete}
	var res THBaseServiceDeleteSingleResult
	if _, err := c.c.Call(ctx, "deleteSingle", args, &res); err != nil {
		return err
	}
	if res.Io != nil {
		return res.Io
	}
	return nil
}

// GetScannerResults opens a scanner, returns up to numRows rows and closes it again.
func (c *THBaseServiceClient) GetScannerResults(ctx context.Context, table []byte, tscan *TScan, numRows int32) ([]*TResult, error) {
	args := &THBaseServiceGetScannerResultsArgs{Table: table, Tscan: tscan, NumRows: numRows}
	var res THBaseServiceGetScannerResultsResult
	if _, err := c.c.Call(ctx, "getScannerResults", args, &res); err != nil {
		return nil, err
	}
	if res.Io != nil {
		return nil, res.Io
	}
	if res.Ia != nil {
		return nil, res.Ia
	}
	return res.Success, nil
}

// TableExists asks the master whether the table is defined.
func (c *THBaseServiceClient) TableExists(ctx context.Context, tableName *TTableName) (bool, error) {
	args := &THBaseServiceTableExistsArgs{TableName: tableName}
	var res THBaseServiceTableExistsResult
	if _, err := c.c.Call(ctx, "tableExists", args, &res); err != nil {
		return false, err
	}
	if res.Io != nil {
		return false, res.Io
	}
	if res.Success == nil {
		return false, missingResult("tableExists")
	}
	return *res.Success, nil
}

type THBaseServiceGetArgs struct {
	Table []byte
	Tget  *TGet
}

func (a *THBaseServiceGetArgs) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "get_args", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			var err error
			a.Table, err = p.ReadBinary(ctx)
			return true, err
		case id == 2 && typ == thrift.STRUCT:
			a.Tget = &TGet{}
			return true, a.Tget.Read(ctx, p)
		}
		return false, nil
	})
}

func (a *THBaseServiceGetArgs) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "get_args", func() error {
		if err := writeBinary(ctx, p, "table", 1, a.Table); err != nil {
			return err
		}
		return writeOptStruct(ctx, p, "tget", 2, a.Tget, a.Tget != nil)
	})
}

type THBaseServiceGetResult struct {
	Success *TResult
	Io      *TIOError
}

func (r *THBaseServiceGetResult) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "get_result", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 0 && typ == thrift.STRUCT:
			r.Success = &TResult{}
			return true, r.Success.Read(ctx, p)
		case id == 1 && typ == thrift.STRUCT:
			r.Io = &TIOError{}
			return true, r.Io.Read(ctx, p)
		}
		return false, nil
	})
}

func (r *THBaseServiceGetResult) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "get_result", func() error {
		if err := writeOptStruct(ctx, p, "success", 0, r.Success, r.Success != nil); err != nil {
			return err
		}
		return writeOptStruct(ctx, p, "io", 1, r.Io, r.Io != nil)
	})
}

type THBaseServicePutArgs struct {
	Table []byte
	Tput  *TPut
}

func (a *THBaseServicePutArgs) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "put_args", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			var err error
			a.Table, err = p.ReadBinary(ctx)
			return true, err
		case id == 2 && typ == thrift.STRUCT:
			a.Tput = &TPut{}
			return true, a.Tput.Read(ctx, p)
		}
		return false, nil
	})
}

func (a *THBaseServicePutArgs) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "put_args", func() error {
		if err := writeBinary(ctx, p, "table", 1, a.Table); err != nil {
			return err
		}
		return writeOptStruct(ctx, p, "tput", 2, a.Tput, a.Tput != nil)
	})
}

type THBaseServicePutResult struct {
	Io *TIOError
}

func (r *THBaseServicePutResult) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "put_result", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		if id == 1 && typ == thrift.STRUCT {
			r.Io = &TIOError{}
			return true, r.Io.Read(ctx, p)
		}
		return false, nil
	})
}

func (r *THBaseServicePutResult) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "put_result", func() error {
		return writeOptStruct(ctx, p, "io", 1, r.Io, r.Io != nil)
	})
}

type THBaseServiceDeleteSingleArgs struct {
	Table   []byte
	Tdelete *TDelete
}

func (a *THBaseServiceDeleteSingleArgs) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "deleteSingle_args", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			var err error
			a.Table, err = p.ReadBinary(ctx)
			return true, err
		case id == 2 && typ == thrift.STRUCT:
			a.Tdelete = &TDelete{}
			return true, a.Tdelete.Read(ctx, p)
		}
		return false, nil
	})
}

func (a *THBaseServiceDeleteSingleArgs) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "deleteSingle_args", func() error {
		if err := writeBinary(ctx, p, "table", 1, a.Table); err != nil {
			return err
		}
		return writeOptStruct(ctx, p, "tdelete", 2, a.Tdelete, a.Tdelete != nil)
	})
}

type THBaseServiceDeleteSingleResult struct {
	Io *TIOError
}

func (r *THBaseServiceDeleteSingleResult) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "deleteSingle_result", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		if id == 1 && typ == thrift.STRUCT {
			r.Io = &TIOError{}
			return true, r.Io.Read(ctx, p)
		}
		return false, nil
	})
}

func (r *THBaseServiceDeleteSingleResult) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "deleteSingle_result", func() error {
		return writeOptStruct(ctx, p, "io", 1, r.Io, r.Io != nil)
	})
}

type THBaseServiceGetScannerResultsArgs struct {
	Table   []byte
	Tscan   *TScan
	NumRows int32
}

func (a *THBaseServiceGetScannerResultsArgs) Read(ctx context.Context, p thrift.TProtocol) error {
	a.NumRows = 1
	return readStruct(ctx, p, "getScannerResults_args", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			a.Table, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.STRUCT:
			a.Tscan = &TScan{}
			err = a.Tscan.Read(ctx, p)
		case id == 3 && typ == thrift.I32:
			a.NumRows, err = p.ReadI32(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (a *THBaseServiceGetScannerResultsArgs) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "getScannerResults_args", func() error {
		if err := writeBinary(ctx, p, "table", 1, a.Table); err != nil {
			return err
		}
		if err := writeOptStruct(ctx, p, "tscan", 2, a.Tscan, a.Tscan != nil); err != nil {
			return err
		}
		return writeField(ctx, p, "numRows", thrift.I32, 3, func() error { return p.WriteI32(ctx, a.NumRows) })
	})
}

type THBaseServiceGetScannerResultsResult struct {
	Success []*TResult
	Io      *TIOError
	Ia      *TIllegalArgument
}

func (r *THBaseServiceGetScannerResultsResult) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "getScannerResults_result", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 0 && typ == thrift.LIST:
			r.Success, err = readStructList[TResult](ctx, p)
		case id == 1 && typ == thrift.STRUCT:
			r.Io = &TIOError{}
			err = r.Io.Read(ctx, p)
		case id == 2 && typ == thrift.STRUCT:
			r.Ia = &TIllegalArgument{}
			err = r.Ia.Read(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (r *THBaseServiceGetScannerResultsResult) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "getScannerResults_result", func() error {
		if r.Success != nil {
			if err := writeStructList(ctx, p, "success", 0, r.Success); err != nil {
				return err
			}
		}
		if err := writeOptStruct(ctx, p, "io", 1, r.Io, r.Io != nil); err != nil {
			return err
		}
		return writeOptStruct(ctx, p, "ia", 2, r.Ia, r.Ia != nil)
	})
}

type THBaseServiceTableExistsArgs struct {
	TableName *TTableName
}

func (a *THBaseServiceTableExistsArgs) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "tableExists_args", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		if id == 1 && typ == thrift.STRUCT {
			a.TableName = &TTableName{}
			return true, a.TableName.Read(ctx, p)
		}
		return false, nil
	})
}

func (a *THBaseServiceTableExistsArgs) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "tableExists_args", func() error {
		return writeOptStruct(ctx, p, "tableName", 1, a.TableName, a.TableName != nil)
	})
}

type THBaseServiceTableExistsResult struct {
	Success *bool
	Io      *TIOError
}

func (r *THBaseServiceTableExistsResult) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "tableExists_result", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 0 && typ == thrift.BOOL:
			v, err := p.ReadBool(ctx)
			r.Success = &v
			return true, err
		case id == 1 && typ == thrift.STRUCT:
			r.Io = &TIOError{}
			return true, r.Io.Read(ctx, p)
		}
		return false, nil
	})
}

func (r *THBaseServiceTableExistsResult) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "tableExists_result", func() error {
		if err := writeOptBool(ctx, p, "success", 0, r.Success); err != nil {
			return err
		}
		return writeOptStruct(ctx, p, "io", 1, r.Io, r.Io != nil)
	})
}
